package goCred

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	errAttemptRateLimited      = errors.New("credential attempts rate limited")
	errAttemptRedisUnavailable = errors.New("attempt redis unavailable")
)

// credentialAttemptLimiter throttles failed current-password and authentication
// verifications per identifier and per client IP.
type credentialAttemptLimiter struct {
	redis  *redis.Client
	config CurrentPasswordConfig
}

func newCredentialAttemptLimiter(redisClient *redis.Client, cfg CurrentPasswordConfig) *credentialAttemptLimiter {
	return &credentialAttemptLimiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Check describes the check operation and its observable behavior.
//
// Check may return an error when input validation, dependency calls, or security checks fail.
// Check does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *credentialAttemptLimiter) Check(ctx context.Context, tenantID, identifier, ip string) error {
	if l.config.EnableIdentifierThrottle && identifier != "" {
		if err := l.checkKey(ctx, attemptIdentifierKey(tenantID, identifier)); err != nil {
			return err
		}
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkKey(ctx, attemptIPKey(tenantID, ip)); err != nil {
			return err
		}
	}

	return nil
}

// RecordFailure describes the recordfailure operation and its observable behavior.
//
// RecordFailure may return an error when input validation, dependency calls, or security checks fail.
// RecordFailure does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *credentialAttemptLimiter) RecordFailure(ctx context.Context, tenantID, identifier, ip string) error {
	if l.config.EnableIdentifierThrottle && identifier != "" {
		if err := l.incrementKey(ctx, attemptIdentifierKey(tenantID, identifier)); err != nil {
			return err
		}
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.incrementKey(ctx, attemptIPKey(tenantID, ip)); err != nil {
			return err
		}
	}

	return nil
}

// Reset describes the reset operation and its observable behavior.
//
// Reset may return an error when input validation, dependency calls, or security checks fail.
// Reset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *credentialAttemptLimiter) Reset(ctx context.Context, tenantID, identifier, ip string) error {
	keys := make([]string, 0, 2)
	if l.config.EnableIdentifierThrottle && identifier != "" {
		keys = append(keys, attemptIdentifierKey(tenantID, identifier))
	}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, attemptIPKey(tenantID, ip))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", errAttemptRedisUnavailable, err)
	}
	return nil
}

func (l *credentialAttemptLimiter) checkKey(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", errAttemptRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return errAttemptRateLimited
	}

	return nil
}

func (l *credentialAttemptLimiter) incrementKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errAttemptRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", errAttemptRedisUnavailable, err)
		}
	}

	return nil
}

func attemptIdentifierKey(tenantID, identifier string) string {
	return "cpa:" + normalizeTenantID(tenantID) + ":" + identifier
}

func attemptIPKey(tenantID, ip string) string {
	return "cpaip:" + normalizeTenantID(tenantID) + ":" + ip
}
