// Package auth verifies the bearer tokens issued by the identity provider
// and carries the resulting principal in a request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vytor/studybook/internal/models"
)

var (
	ErrMissingToken = errors.New("authorization header is required")
	ErrMalformed    = errors.New("authorization header must be in the format: Bearer {token}")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are the token claims the service reads. The subject is the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMalformed
	}
	return strings.TrimSpace(token), nil
}

// Verify parses and validates a token and returns its principal.
func (v *Verifier) Verify(token string) (models.Principal, error) {
	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return models.Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return models.Principal{UserID: claims.Subject, Email: claims.Email}, nil
}

// Issue signs a token for userID. The service does not issue tokens to
// clients; this exists for local tooling and tests.
func Issue(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type ctxKey struct{}

func NewContext(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the request principal. It is unauthenticated when the
// request carried no verified token.
func FromContext(ctx context.Context) models.Principal {
	if p, ok := ctx.Value(ctxKey{}).(models.Principal); ok {
		return p
	}
	return models.Principal{}
}
