// Package auth extracts caller identity from bearer tokens and carries it on
// the request context as an explicit capability. Token issuance is handled
// elsewhere; this package only verifies.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shortly-app/shortly/internal/models"
)

type ctxKey struct{}

// Claims is the caller identity attached to a request context.
type Claims struct {
	Subject string
	Role    models.Role
}

func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(Claims)
	return claims, ok
}

// Middleware parses the Authorization bearer token and, when it verifies,
// attaches the caller's claims to the context. Requests without a valid
// token proceed anonymously; authorization decisions belong to the services.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(r.Header.Get("Authorization"), secret)
			if err == nil {
				r = r.WithContext(ContextWithClaims(r.Context(), claims))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseBearer(header, secret string) (Claims, error) {
	const op = "auth.parseBearer"

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return Claims{}, fmt.Errorf("%s: missing bearer token", op)
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("%s: failed to parse token: %w", op, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%s: unexpected claims type", op)
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)

	return Claims{
		Subject: sub,
		Role:    models.Role(role),
	}, nil
}
