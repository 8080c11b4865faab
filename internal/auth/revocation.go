package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lead-intake-go/pkg/logger"
)

const revokedTokenKeyPrefix = "lead-intake:revoked:"

// RevocationStore remembers signed-out token ids until the tokens expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisRevocationStore struct {
	client redis.UniversalClient
	log    logger.Logger
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

func NewRedisRevocationStore(client redis.UniversalClient, log logger.Logger) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, log: log}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked treats an unreachable Redis as "not revoked" and logs it, so a
// cache outage does not lock every operator out.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revokedTokenKeyPrefix+tokenID).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	s.log.Warn("auth: revocation lookup failed", "error", err)
	return false, nil
}

// NewRedisClient builds a client for the revocation store.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
