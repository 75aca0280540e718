// Package confirmation issues and verifies the single-use, time-windowed
// codes that stand in for passwords at signup.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrCodeInvalid covers a wrong, expired, or already-consumed code. The
// caller cannot distinguish the three on purpose.
var ErrCodeInvalid = errors.New("invalid or expired confirmation code")

// Store issues a code bound to a user and verifies it exactly once.
type Store interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, userID, code string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func codeKey(userID string) string {
	return "confirmation_code:" + userID
}

// Issue generates a fresh code and stores its bcrypt hash under the user's
// key with the configured TTL. Re-issuing replaces any outstanding code.
func (s *redisStore) Issue(ctx context.Context, userID string) (string, error) {
	code := uuid.New().String()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}

	if err := s.client.Set(ctx, codeKey(userID), string(hash), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store confirmation code: %w", err)
	}

	return code, nil
}

// Verify compares the submitted code against the stored hash and consumes
// it on success, so a code can authenticate at most one token request.
func (s *redisStore) Verify(ctx context.Context, userID, code string) error {
	hash, err := s.client.Get(ctx, codeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("load confirmation code: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrCodeInvalid
	}

	if err := s.client.Del(ctx, codeKey(userID)).Err(); err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}

	return nil
}
