package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated owner id. Identity issuance lives
// elsewhere; this service only verifies the signature and reads the subject.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type ctxKey int

const ownerKey ctxKey = iota

// GenerateToken signs a token for userID. Exposed for tooling and tests.
func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Auth validates the bearer token and stores the owner id on the context.
// WebSocket clients cannot set headers from a browser, so a "token" query
// parameter is accepted as a fallback.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if h := r.Header.Get("Authorization"); h != "" {
				var found bool
				if raw, found = strings.CutPrefix(h, "Bearer "); !found {
					writeError(w, http.StatusUnauthorized, "malformed authorization header")
					return
				}
			} else if q := r.URL.Query().Get("token"); q != "" {
				raw = q
			}
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, claims.UserID)))
		})
	}
}

// OwnerID returns the authenticated owner id, or "" outside the Auth middleware.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey).(string)
	return id
}
