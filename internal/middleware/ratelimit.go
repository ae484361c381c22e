package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGeneralRPM    = 100
	defaultCredentialRPM = 10

	// idle visitors are forgotten once the table grows past this size
	visitorTableSoftCap = 1000
	visitorIdleTTL      = 10 * time.Minute
)

// credentialEndpoints verify or set a password. They share the tighter budget
// so guessing and reset-link spraying are slowed per address.
var credentialEndpoints = map[string]struct{}{
	"/api/v1/auth/login":           {},
	"/api/v1/auth/register":        {},
	"/api/v1/auth/forgot-password": {},
	"/api/v1/auth/reset-password":  {},
	"/api/v1/auth/change-password": {},
}

type visitor struct {
	general    *rate.Limiter
	credential *rate.Limiter
	lastSeen   time.Time
}

type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	now        func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimitMiddleware builds a per-address limiter. A negative generalRPM
// turns the general budget off; zero picks the default. The credential budget
// cannot be turned off.
func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM == 0 {
		generalRPM = defaultGeneralRPM
	}
	if authRPM <= 0 {
		authRPM = defaultCredentialRPM
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		now:        time.Now,
		visitors:   map[string]*visitor{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(strings.ToLower(r.URL.Path), "/")
		if path == "/health" || strings.HasPrefix(path, "/health/") {
			next.ServeHTTP(w, r)
			return
		}

		v := m.visitorFor(ClientIP(r))

		limiter := v.general
		if _, ok := credentialEndpoints[path]; ok && r.Method == http.MethodPost {
			limiter = v.credential
		}

		if limiter != nil && !limiter.Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) visitorFor(addr string) *visitor {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, ok := m.visitors[addr]
	if !ok {
		v = &visitor{credential: perMinute(m.authRPM)}
		if m.generalRPM > 0 {
			v.general = perMinute(m.generalRPM)
		}
		m.visitors[addr] = v
	}
	v.lastSeen = now

	if len(m.visitors) >= visitorTableSoftCap {
		cutoff := now.Add(-visitorIdleTTL)
		for key, candidate := range m.visitors {
			if candidate.lastSeen.Before(cutoff) {
				delete(m.visitors, key)
			}
		}
	}
	return v
}

// perMinute allows a full minute's budget as burst, refilled evenly.
func perMinute(rpm int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

// ClientIP is the socket address of the request. Proxy headers only count
// when the router has been told to trust them and rewrote RemoteAddr first.
// It is the address recorded in audit entries and used as the rate-limit key.
func ClientIP(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
