// Package auth authenticates API requests with HS256 bearer tokens whose subject is the owner id.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying the authenticated owner id.
func WithOwner(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, id)
}

// OwnerID returns the owner id put in ctx by Middleware.
func OwnerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return id, ok
}

// Middleware rejects requests without a valid bearer token signed with secret.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				respond.Unauthorized(w, "missing bearer token")
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				respond.Unauthorized(w, "invalid token")
				return
			}

			owner, err := uuid.Parse(claims.Subject)
			if err != nil {
				respond.Unauthorized(w, "token subject is not an owner id")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// Sign issues a token for owner. It exists for tooling and tests; production tokens come from the
// identity provider sharing the secret.
func Sign(secret []byte, owner uuid.UUID, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = owner.String()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
