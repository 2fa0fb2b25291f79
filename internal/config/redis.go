package config

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to REDIS_URL. It returns nil when no URL is set or
// the server does not answer a ping; callers treat nil as "limiting disabled".
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("redis: invalid REDIS_URL: %v", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: ping failed, rate limiting disabled: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}
