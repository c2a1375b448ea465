package http

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/campusbridge/embed-service/internal/domain"
	"github.com/campusbridge/embed-service/internal/metrics"
)

// ClientLimiter hands out a token-bucket limiter per client key. Buckets
// refill at perMinute/60 tokens a second with a burst of the full minute
// allowance, which makes "N requests per minute" hold for bursty clients.
// Idle buckets are pruned so the map stays bounded.
type ClientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientBucket
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
	nowFn    func() time.Time
}

type clientBucket struct {
	limiter *rate.Limiter
	seenAt  time.Time
}

func NewClientLimiter(perMinute int) *ClientLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &ClientLimiter{
		clients:  make(map[string]*clientBucket),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		lastSeen: 10 * time.Minute,
		nowFn:    func() time.Time { return time.Now() },
	}
}

// reserve reports whether the client may proceed, and if not, how long until
// the next token is available.
func (l *ClientLimiter) reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	bucket, ok := l.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
		if len(l.clients)%256 == 0 {
			l.prune()
		}
	}
	bucket.seenAt = l.nowFn()
	l.mu.Unlock()

	res := bucket.limiter.Reserve()
	delay := res.Delay()
	if delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// prune drops buckets idle for longer than lastSeen. Called with l.mu held.
func (l *ClientLimiter) prune() {
	cutoff := l.nowFn().Add(-l.lastSeen)
	for key, bucket := range l.clients {
		if bucket.seenAt.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// rateLimitMiddleware rejects over-limit clients before any cache or upstream
// work, with a Retry-After hint rounded up to whole seconds.
func rateLimitMiddleware(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.reserve(readIP(r))
			if !allowed {
				metrics.RateLimited.Inc()
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				status, detail := mapDomainError(domain.ErrRateLimited)
				logHTTPOperationError(r.Context(), "rate_limit", status, detail, domain.ErrRateLimited)
				writeError(w, status, detail)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
