package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const identityKey ctxKey = 1

// Identity is what the token resolves to: who is calling and whether
// they hold the admin flag at token-issue time.
type Identity struct {
	UserID int64
	Admin  bool
}

// WithIdentity adds the caller's identity to the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// From extracts the identity from the context; ok is false for
// unauthenticated requests
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// JWT wraps a signing secret for issuing/verifying tokens
type JWT struct{ secret []byte }

// New creates a new JWT signer/verifier.
func New(secret string) *JWT { return &JWT{secret: []byte(secret)} }

// Verify checks a token and returns the identity carried in its claims
func (j *JWT) Verify(tok string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	sub, _ := claims["sub"].(string)
	uid, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || uid <= 0 {
		return Identity{}, errors.New("no sub")
	}
	admin, _ := claims["adm"].(bool)
	return Identity{UserID: uid, Admin: admin}, nil
}

// Sign creates a token for uid with the given TTL
func (j *JWT) Sign(uid int64, admin bool, ttl time.Duration) (string, error) {
	if uid <= 0 {
		return "", errors.New("empty uid")
	}
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(uid, 10),
		"adm": admin,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(j.secret)
}
