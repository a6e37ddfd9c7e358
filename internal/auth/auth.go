// Package auth verifies the bearer tokens issued by the external identity
// provider and implements sign-out by revoking a token until it expires.
// It never stores users or passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/truck-tracker/internal/domain"
)

// Claims are the token claims the tracker relies on. Subject is the user id
// and ID (jti) identifies the token for sign-out.
type Claims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// Verifier validates HS256 tokens and keeps the sign-out denylist.
type Verifier struct {
	secret []byte
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

// NewVerifier returns a Verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:  []byte(secret),
		now:     time.Now,
		revoked: map[string]time.Time{},
	}
}

// IssueToken signs a token for the given user. The identity provider issues
// tokens in production; this exists for local development and tests.
func (v *Verifier) IssueToken(user domain.User, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Verifier.IssueToken: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token and returns its claims.
// Every failure wraps domain.ErrUnauthorized.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(v.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	if v.isRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: token signed out", domain.ErrUnauthorized)
	}
	return claims, nil
}

// SignOut revokes the token whose claims are in ctx. A token without a jti
// cannot be revoked and is rejected.
func (v *Verifier) SignOut(ctx context.Context) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return fmt.Errorf("auth.Verifier.SignOut: %w", domain.ErrUnauthorized)
	}
	if claims.ID == "" {
		return fmt.Errorf("auth.Verifier.SignOut: %w: token has no id", domain.ErrUnauthorized)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pruneLocked()
	v.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

func (v *Verifier) isRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.revoked[jti]
	return ok
}

// pruneLocked drops entries for tokens that have expired anyway.
func (v *Verifier) pruneLocked() {
	now := v.now()
	for jti, exp := range v.revoked {
		if now.After(exp) {
			delete(v.revoked, jti)
		}
	}
}

// bearerToken reads "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.New("authorization header missing")
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return "", errors.New("authorization must start with Bearer")
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errors.New("bearer token missing")
	}
	return token, nil
}

type ctxKey struct{}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext extracts the claims placed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// UserFromContext returns the signed-in user, or the zero User.
func UserFromContext(ctx context.Context) domain.User {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return domain.User{}
	}
	return domain.User{ID: c.Subject, Email: c.Email}
}
