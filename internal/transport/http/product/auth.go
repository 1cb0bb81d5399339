package product

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionVerifier authenticates requests by verifying the session JWT
// carried in the "session" cookie or an Authorization bearer header.
type SessionVerifier struct {
	key []byte
}

func NewSessionVerifier(key string) *SessionVerifier {
	return &SessionVerifier{key: []byte(key)}
}

// Require wraps a handler and rejects requests without a valid session.
func (s *SessionVerifier) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}

		userID, err := s.verify(token)
		if err != nil || userID == "" {
			writeError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (s *SessionVerifier) verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}

	userID, _ := claims["userId"].(string)
	return userID, nil
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie("session"); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// UserID extracts the authenticated user id set by Require.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
