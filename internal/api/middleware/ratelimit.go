package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
)

const (
	msgTooManyRequests = "слишком много запросов, повторите позже"
	limiterIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов отдельно для каждого клиента
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

// NewRateLimiter создает ограничитель: rps запросов в секунду, всплеск до burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow проверяет квоту клиента
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// Middleware отвечает 429, когда квота клиента исчерпана.
// Клиент определяется по X-User-ID, иначе по IP.
func (l *RateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if id := r.Header.Get(HeaderUserID); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
