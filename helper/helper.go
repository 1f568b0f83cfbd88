package helper

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ContextKey string

const (
	SessionIDKey ContextKey = "session_id"
	RoleKey      ContextKey = "role"
)

// Session is the identity carried by a login token. The ID keys the cart and
// preferences kept for that login.
type Session struct {
	ID   string
	Role string
}

// TokenManager signs and verifies session tokens with a shared HS256 secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// GenerateJWT opens a new session for role and returns its token.
func (m *TokenManager) GenerateJWT(role string) (string, Session, error) {
	s := Session{ID: uuid.NewString(), Role: role}
	claims := jwt.MapClaims{
		"sid":  s.ID,
		"role": s.Role,
		"exp":  time.Now().Add(m.ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Session{}, err
	}
	return signed, s, nil
}

// ValidateJWT verifies tokenStr and returns the session it carries.
func (m *TokenManager) ValidateJWT(tokenStr string) (Session, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, jwt.ErrTokenInvalidClaims
	}

	sid, _ := claims["sid"].(string)
	role, _ := claims["role"].(string)
	if sid == "" || role == "" {
		return Session{}, errors.New("invalid token payload")
	}
	return Session{ID: sid, Role: role}, nil
}

func WithSession(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, s.ID)
	return context.WithValue(ctx, RoleKey, s.Role)
}

// GetSessionFromContext returns the session stored by the auth middleware,
// or a zero Session.
func GetSessionFromContext(ctx context.Context) Session {
	var s Session
	if v, ok := ctx.Value(SessionIDKey).(string); ok {
		s.ID = v
	}
	if v, ok := ctx.Value(RoleKey).(string); ok {
		s.Role = v
	}
	return s
}
