package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryLimiter is a per-process token bucket keyed by client
type MemoryLimiter struct {
	mu          sync.Mutex
	capacity    int
	refillDur   time.Duration
	clients     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
}

// NewMemoryLimiter allows capacity requests per refillDur for each client
func NewMemoryLimiter(capacity int, refillDur time.Duration) *MemoryLimiter {
	rl := &MemoryLimiter{
		capacity:    capacity,
		refillDur:   refillDur,
		clients:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastRefill) > bucketCleanupThreshold {
			delete(l.clients, key)
		}
	}
}

// Stop ends the background cleanup
func (l *MemoryLimiter) Stop() {
	close(l.stopCleanup)
}

// Allow takes one token from the client's bucket
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, exists := l.clients[key]

	if !exists {
		l.clients[key] = &clientBucket{
			tokens:     l.capacity - 1,
			lastRefill: now,
		}
		return true, nil
	}

	if now.Sub(bucket.lastRefill) >= l.refillDur {
		bucket.tokens = l.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false, nil
	}

	bucket.tokens--
	return true, nil
}

// WindowCounter counts hits per key in a window that expires
type WindowCounter interface {
	// Hit increments key and returns the new count and the key's remaining
	// TTL. The TTL is negative when the key has no expiry.
	Hit(ctx context.Context, key string) (int64, time.Duration, error)
	Expire(ctx context.Context, key string, window time.Duration) error
}

type redisCounter struct {
	client *redis.Client
}

func (c *redisCounter) Hit(ctx context.Context, key string) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

func (c *redisCounter) Expire(ctx context.Context, key string, window time.Duration) error {
	return c.client.Expire(ctx, key, window).Err()
}

// RedisLimiter is a fixed-window counter shared by all instances
type RedisLimiter struct {
	counter WindowCounter
	limit   int64
	window  time.Duration
	prefix  string
}

// NewRedisLimiter allows limit requests per window for each client
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return newWindowLimiter(&redisCounter{client: client}, limit, window)
}

func newWindowLimiter(counter WindowCounter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		prefix:  "hypo:ratelimit:",
	}
}

// Allow increments the client's counter for the current window. A key
// left without expiry gets one on the next hit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	n, ttl, err := l.counter.Hit(ctx, k)
	if err != nil {
		return false, err
	}
	if ttl < 0 {
		// The expiry must land even if the request goes away meanwhile.
		if err := l.counter.Expire(context.WithoutCancel(ctx), k, l.window); err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}

// RateLimit rejects clients over the limit with 429. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			ok, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				log.Warnf("Rate limiter unavailable: %v", err)
				ok = true
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
