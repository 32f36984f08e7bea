package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var webhookRateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisWebhookRateLimiter implements distributed rate limiting using Redis.
// It bounds how often a single webhook source can hit the gateway endpoint.
type RedisWebhookRateLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisWebhookRateLimiter(client redis.UniversalClient, prefix string) *RedisWebhookRateLimiter {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "marketplace:rate_limit"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisWebhookRateLimiter{
		client: client,
		prefix: trimmedPrefix,
	}
}

// ConsumeRateLimit counts one hit for subject within scope. It returns the
// current count and, when the limit is exceeded, how long the caller should
// wait. A nil limiter or non-positive limit disables limiting.
func (r *RedisWebhookRateLimiter) ConsumeRateLimit(
	ctx context.Context,
	scope string,
	subject string,
	limit int,
	window time.Duration,
) (count int, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}

	normalizedScope := strings.TrimSpace(scope)
	normalizedSubject := strings.TrimSpace(subject)
	if normalizedScope == "" || normalizedSubject == "" {
		return 0, 0, nil
	}

	key := fmt.Sprintf("%s:%s:%s", r.prefix, normalizedScope, normalizedSubject)
	result, err := webhookRateLimitScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(result) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit script result length %d", len(result))
	}

	current, ok := result[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit count type %T", result[0])
	}
	ttlMillis, ok := result[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit ttl type %T", result[1])
	}

	count = int(current)
	if count > limit {
		retryAfterSeconds = int(math.Ceil(float64(ttlMillis) / 1000.0))
		if retryAfterSeconds < 1 {
			retryAfterSeconds = 1
		}
	}
	return count, retryAfterSeconds, nil
}
