// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/alwaysdemon/storefront/internal/core"
)

const rateLimitKeyPrefix = "storefront:rl:"

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter shares one GCRA budget across replicas through Redis. Without
// Redis, or while Redis errors, each process keeps its own token buckets.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local:  newLocalBuckets(cfg.Limit),
		config: cfg,
	}
	if rdb != nil {
		rl.shared = redis_rate.NewLimiter(rdb)
	}

	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.WarnContext(r.Context(), "rate limiter failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.InternalServerError(w, err)
			return
		}

		writeLimitHeaders(w, res)

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.RateLimitedError(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.shared != nil {
		res, err := rl.shared.Allow(ctx, key, rl.config.Limit)
		if err == nil {
			return res, nil
		}
		slog.WarnContext(ctx, "redis rate limit unavailable, using local buckets",
			"error", err,
		)
	}
	return rl.local.allow(key, time.Now())
}

// KeyByIP keys on the nearest proxy-reported client address, falling back
// to the connection's remote address.
func KeyByIP(r *http.Request) string {
	ip := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		ip = strings.TrimSpace(hops[len(hops)-1])
	}
	if ip == "" {
		ip = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	return rateLimitKeyPrefix + "ip:" + ip
}

// BypassPaths exempts exact paths such as probes and the metrics scrape.
func BypassPaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

func writeLimitHeaders(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets holds one token bucket per key. Idle buckets are swept
// during allow once per bucketIdleTTL.
type localBuckets struct {
	mu        sync.Mutex
	limit     redis_rate.Limit
	perSecond rate.Limit
	buckets   map[string]*bucket
	nextSweep time.Time
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	perSecond := rate.Inf
	if limit.Period > 0 && limit.Rate > 0 {
		perSecond = rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	}
	return &localBuckets{
		limit:     limit,
		perSecond: perSecond,
		buckets:   make(map[string]*bucket),
	}
}

func (l *localBuckets) allow(key string, now time.Time) (*redis_rate.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(bucketIdleTTL)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.perSecond, l.limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      l.limit,
		RetryAfter: -1,
	}

	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else if l.perSecond > 0 {
		res.RetryAfter = time.Duration(float64(time.Second) / float64(l.perSecond))
	}

	res.Remaining = int(b.limiter.TokensAt(now))
	if l.perSecond > 0 && l.perSecond != rate.Inf {
		missing := float64(l.limit.Burst) - b.limiter.TokensAt(now)
		res.ResetAfter = time.Duration(missing / float64(l.perSecond) * float64(time.Second))
	}

	return res, nil
}

// PerWindow allows rate requests per window with the given burst. A
// non-positive window means per minute.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = rate
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: window,
	}
}
