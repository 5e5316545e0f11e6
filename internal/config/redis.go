package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisOptions returns nil options when REDIS_ADDR is unset, which turns
// rate limiting off.
func NewRedisOptions() (*redis.Options, error) {
	addr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok || addr == "" {
		return nil, nil
	}
	db := 0
	if s, ok := os.LookupEnv("REDIS_DB"); ok {
		var err error
		if db, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}
	return &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

type RateLimit struct {
	Requests int
	Window   time.Duration
}

func NewRateLimit() (*RateLimit, error) {
	rl := &RateLimit{Requests: 30, Window: 10 * time.Second}
	if s, ok := os.LookupEnv("RATE_LIMIT_REQUESTS"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS %q", s)
		}
		rl.Requests = n
	}
	if s, ok := os.LookupEnv("RATE_LIMIT_WINDOW"); ok {
		d, err := time.ParseDuration(s)
		if err != nil || d < time.Second {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", s)
		}
		rl.Window = d
	}
	return rl, nil
}
