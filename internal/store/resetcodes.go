package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/app"
)

const resetCodeTTL = 15 * time.Minute

// ErrCodeInvalid covers both unknown and expired reset codes so callers
// can't distinguish the two cases.
var ErrCodeInvalid = errors.New("invalid or expired code")

// ResetCodes keeps password-reset codes in Redis with a 15 minute TTL.
type ResetCodes struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewResetCodes connects to redis and verifies connectivity
func NewResetCodes(ctx context.Context, cfg app.Config, log *slog.Logger) (*ResetCodes, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &ResetCodes{rdb: rdb, log: log}, nil
}

// Issue generates a fresh 6-digit code for the email, replacing any
// earlier one, and starts the TTL clock.
func (r *ResetCodes) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	if err := r.rdb.Set(ctx, codeKey(email), code, resetCodeTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Validate checks the code without consuming it
func (r *ResetCodes) Validate(ctx context.Context, email, code string) error {
	stored, err := r.rdb.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeInvalid
	}
	if err != nil {
		return err
	}
	if stored != code {
		// Burn the code on a wrong guess, like the original flow.
		_ = r.rdb.Del(ctx, codeKey(email)).Err()
		return ErrCodeInvalid
	}
	return nil
}

// Consume deletes the code once the reset completed
func (r *ResetCodes) Consume(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, codeKey(email)).Err()
}

// Exists reports whether a reset session is open for the email
func (r *ResetCodes) Exists(ctx context.Context, email string) (bool, error) {
	n, err := r.rdb.Exists(ctx, codeKey(email)).Result()
	return n > 0, err
}

// Close shuts down the redis connection
func (r *ResetCodes) Close() { _ = r.rdb.Close() }

// key namespacing for reset codes
func codeKey(email string) string { return "reset:" + normEmail(email) }
