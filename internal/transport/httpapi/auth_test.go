package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authProbe(secret string) (http.Handler, *string) {
	var seen string
	h := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestAuthBearerToken(t *testing.T) {
	h, seen := authProbe(testSecret)

	token, err := GenerateToken(testSecret, "u42", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u42", *seen)
}

func TestAuthQueryParamFallback(t *testing.T) {
	h, seen := authProbe(testSecret)

	token, err := GenerateToken(testSecret, "u42", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u42", *seen)
}

func TestAuthRejections(t *testing.T) {
	h, _ := authProbe(testSecret)

	expired, err := GenerateToken(testSecret, "u42", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := GenerateToken("other-secret", "u42", time.Hour)
	require.NoError(t, err)

	cases := map[string]func(*http.Request){
		"no credentials":   func(*http.Request) {},
		"malformed header": func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
		"garbage token":    func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") },
		"expired token":    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
		"wrong signature":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+wrongKey) },
	}
	for name, mutate := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
