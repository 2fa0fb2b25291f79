package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/smartq/internal/config"
)

// tokenBucket refills one token per interval up to capacity and returns
// {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit limits requests per client IP and route with a Redis token
// bucket. A nil client or disabled config passes every request through, and
// Redis errors fail open.
func RateLimit(cfg *config.Config, rdb *redis.Client, scope string) gin.HandlerFunc {
	if !cfg.RateLimitEnabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	capacity := cfg.RateLimitCapacity
	if capacity < 1 {
		capacity = 1
	}
	interval := cfg.RateLimitRefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	ttl := int64((time.Duration(capacity) * interval * 2) / time.Second)
	if ttl < 60 {
		ttl = 60
	}

	return func(c *gin.Context) {
		key := RateLimitKey(scope, c.ClientIP())

		vals, err := tokenBucket.Run(
			c.Request.Context(),
			rdb,
			[]string{key},
			time.Now().UnixMilli(),
			capacity,
			interval.Milliseconds(),
			ttl,
		).Result()
		if err != nil {
			c.Next()
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			c.Next()
			return
		}
		allowed, _ := arr[0].(int64)
		remaining, _ := arr[1].(int64)
		retryMs, _ := arr[2].(int64)

		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if allowed != 1 {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code":  "too_many_requests",
				"message":     "Too many requests, slow down.",
				"retry_after": secs,
			})
			return
		}

		c.Next()
	}
}

func RateLimitKey(scope, ip string) string {
	return "smartq:rl:" + scope + ":" + ip
}
