package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos-storefront/helper"
	"pos-storefront/model"
)

var testTokens = helper.NewTokenManager("test-secret", time.Hour)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(testTokens)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	AuthMiddleware(testTokens)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid_token_123")
	rec := httptest.NewRecorder()

	AuthMiddleware(testTokens)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestAuthMiddleware_OtherSecret(t *testing.T) {
	token, _, err := helper.NewTokenManager("someone-else", time.Hour).GenerateJWT(model.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(testTokens)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, session, err := testTokens.GenerateJWT(model.RoleStaff)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var handlerCalled bool

	handler := AuthMiddleware(testTokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true

		got := helper.GetSessionFromContext(r.Context())
		if got != session {
			t.Fatalf("expected session %+v, got %+v", session, got)
		}

		w.WriteHeader(200)
	}))

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if !handlerCalled {
		t.Fatalf("next handler was NOT called on valid token")
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{model.RoleAdmin, http.StatusOK},
		{model.RoleStaff, http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req = req.WithContext(helper.WithSession(req.Context(), helper.Session{ID: "s1", Role: tt.role}))
			rec := httptest.NewRecorder()

			RequireAdmin(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
