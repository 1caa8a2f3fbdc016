package httpx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Request headers carrying ids between callers and the service.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"
)

// RequestID tags every request with a request id and a correlation id. An
// incoming X-Correlation-ID is kept so a caller can follow a chain of calls.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = requestID
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := observability.WithCorrelationID(r.Context(), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// AccessLog logs one line per request once it completes.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.InfoContext(r.Context(), "HTTP request",
				observability.CorrelationID(r.Context()),
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", rec.status),
				observability.Any("duration", time.Since(start)),
			)
		})
	}
}

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle IP entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an IP-based rate limiter that prunes stale entries inline.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

// NewIPRateLimiter creates a new IPRateLimiter allowing r requests per second
// with bursts of b.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipEntry),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// Limiter returns the rate.Limiter for ip, pruning stale entries when the map
// exceeds cleanupThreshold.
func (i *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if len(i.ips) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, ok := i.ips[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Len reports how many addresses are tracked.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// RateLimit rejects requests from an address once its limiter is exhausted.
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Limiter(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				JSON(w, http.StatusTooManyRequests, ErrorBody{
					Error: http.StatusText(http.StatusTooManyRequests),
					Kind:  "rate_limited",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
