package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shortly-app/shortly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t testing.TB, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	return signed
}

func TestMiddleware(t *testing.T) {
	var gotClaims Claims
	var gotOK bool

	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, gotOK = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(authorization string) *httptest.ResponseRecorder {
		gotClaims, gotOK = Claims{}, false

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("no authorization header", func(t *testing.T) {
		rec := serve("")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := serve("Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "1", "role": "admin"})
		rec := serve("Bearer " + token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "1",
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		rec := serve("Bearer " + token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "42", "role": "admin"})
		rec := serve("Bearer " + token)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, gotOK)
		assert.Equal(t, "42", gotClaims.Subject)
		assert.Equal(t, models.RoleAdmin, gotClaims.Role)
	})
}

func TestClaimsFromContext(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := ClaimsFromContext(req.Context())

		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		want := Claims{Subject: "7", Role: models.RoleClient}
		ctx := ContextWithClaims(httptest.NewRequest(http.MethodGet, "/", nil).Context(), want)

		got, ok := ClaimsFromContext(ctx)

		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}
