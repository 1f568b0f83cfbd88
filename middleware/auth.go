package middleware

import (
	"net/http"
	"strings"

	"pos-storefront/helper"
	"pos-storefront/model"

	"github.com/gorilla/mux"
)

func AuthMiddleware(tm *helper.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				helper.WriteErrorJSON(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				helper.WriteErrorJSON(w, http.StatusUnauthorized, "invalid Authorization format (use Bearer token)")
				return
			}

			session, err := tm.ValidateJWT(tokenStr)
			if err != nil {
				helper.WriteErrorJSON(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := helper.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if helper.GetSessionFromContext(r.Context()).Role != model.RoleAdmin {
			helper.WriteErrorJSON(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
