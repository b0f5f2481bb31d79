package goCred

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const identKeyPrefix = "cri"

var (
	errIdentTaken            = errors.New("identifier already reserved")
	errIdentRedisUnavailable = errors.New("ident redis unavailable")
)

// identReservationStore claims normalized identifiers in Redis for the window
// between changeset validation and provider persistence. A claim that cannot be
// taken means another commit holds the same identifier in the same tenant.
type identReservationStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func newIdentReservationStore(redisClient *redis.Client, cfg CommitConfig) *identReservationStore {
	return &identReservationStore{
		redis:  redisClient,
		prefix: identKeyPrefix,
		ttl:    cfg.ReservationTTL,
	}
}

func (s *identReservationStore) key(tenantID, email string) string {
	return s.prefix + ":" + normalizeTenantID(tenantID) + ":" + email
}

// Claim describes the claim operation and its observable behavior.
//
// Claim may return an error when input validation, dependency calls, or security checks fail.
// Claim does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *identReservationStore) Claim(ctx context.Context, tenantID, email, owner string) error {
	key := s.key(tenantID, email)

	ok, err := s.redis.SetNX(ctx, key, owner, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errIdentRedisUnavailable, err)
	}
	if ok {
		return nil
	}

	holder, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Reservation expired between SetNX and Get; retry once.
			ok, err := s.redis.SetNX(ctx, key, owner, s.ttl).Result()
			if err != nil {
				return fmt.Errorf("%w: %v", errIdentRedisUnavailable, err)
			}
			if ok {
				return nil
			}
			return errIdentTaken
		}
		return fmt.Errorf("%w: %v", errIdentRedisUnavailable, err)
	}

	if holder == owner {
		return nil
	}

	return errIdentTaken
}

// Release describes the release operation and its observable behavior.
//
// Release may return an error when input validation, dependency calls, or security checks fail.
// Release does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *identReservationStore) Release(ctx context.Context, tenantID, email string) error {
	if err := s.redis.Del(ctx, s.key(tenantID, email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errIdentRedisUnavailable, err)
	}
	return nil
}

func normalizeTenantID(tenantID string) string {
	if tenantID == "" {
		return "0"
	}
	return tenantID
}
