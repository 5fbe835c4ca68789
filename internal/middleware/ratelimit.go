package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"contentorchestrator/internal/logger"
	helpers "contentorchestrator/internal/utils/helpers"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter: token bucket на каждый IP клиента.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	sweepEach time.Duration
	lastSweep time.Time
	trusted   []*net.IPNet
}

// NewRateLimiter: trustedProxies: IP или CIDR, от которых принимаем X-Forwarded-For.
// Некорректные записи пропускаются.
func NewRateLimiter(rps float64, burst int, trustedProxies []string) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &RateLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		ttl:       10 * time.Minute,
		sweepEach: time.Minute,
	}
	for _, p := range trustedProxies {
		if n := parseNet(p); n != nil {
			l.trusted = append(l.trusted, n)
		} else {
			logger.Log.Warn("Некорректный доверенный прокси", zap.String("value", p))
		}
	}
	return l
}

func parseNet(s string) *net.IPNet {
	s = strings.TrimSpace(s)
	if _, n, err := net.ParseCIDR(s); err == nil {
		return n
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		ip, bits = ip.To4(), 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

func (l *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// старые записи чистим не чаще раза в sweepEach
	if now.Sub(l.lastSweep) >= l.sweepEach {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *RateLimiter) isTrusted(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// clientIP: адрес соединения; X-Forwarded-For разбирается справа налево,
// только пока каждый очередной хоп доверенный.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !l.isTrusted(peer) {
		return peer
	}

	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" {
		return peer
	}
	hops := strings.Split(fwd, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.isTrusted(hop) {
			return hop
		}
		peer = hop
	}
	return peer
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.get(ip, time.Now()).Allow() {
			logger.WithCtx(r.Context()).Warn("Превышен лимит запросов", zap.String("ip", ip), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			helpers.Error(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
