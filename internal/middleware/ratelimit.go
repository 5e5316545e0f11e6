package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vancomm/roguesweeper/internal/config"
	"github.com/vancomm/roguesweeper/internal/metrics"
)

// NewRedisClient connects to Redis, returning nil when opts is nil or the
// server does not answer, in which case limiting is skipped.
func NewRedisClient(ctx context.Context, logger *slog.Logger, opts *redis.Options) *redis.Client {
	if opts == nil {
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled",
			slog.String("addr", opts.Addr), slog.Any("error", err))
		client.Close()
		return nil
	}
	return client
}

func clientKey(r *http.Request) string {
	if claims, ok := PlayerClaims(r.Context()); ok {
		return "p" + strconv.FormatInt(claims.PlayerID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "a" + host
}

// RateLimit is a fixed-window limiter keyed by player, or by remote address
// for anonymous requests. It fails open on any Redis error.
func RateLimit(logger *slog.Logger, client *redis.Client, limit config.RateLimit) Middleware {
	window := strconv.FormatInt(int64(limit.Window.Seconds()), 10)
	return func(h http.Handler) http.Handler {
		if client == nil {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoint := r.URL.Path
			key := "rl:" + window + ":" + clientKey(r)

			val, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("rate limiter error", slog.Any("error", err))
				w.Header().Set("X-RateLimit-Error", "redis-error")
				h.ServeHTTP(w, r)
				return
			}
			if val == 1 {
				client.Expire(r.Context(), key, limit.Window)
			}
			if val > int64(limit.Requests) {
				metrics.RLBlocked.WithLabelValues(endpoint).Inc()
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", window)
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			metrics.RLRequests.WithLabelValues(endpoint).Inc()
			h.ServeHTTP(w, r)
		})
	}
}
