package api

import (
	"math"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"github.com/promptgallery/gallery-server/internal/http/response"
	"github.com/promptgallery/gallery-server/internal/ratelimit"
)

// rateLimited returns operation middleware that limits requests per client IP.
// A nil limiter disables limiting.
func (s *Server) rateLimited(limiter *ratelimit.KeyedRateLimiter) huma.Middlewares {
	if limiter == nil {
		return nil
	}
	return huma.Middlewares{func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)
		key := getClientIP(r)

		if !limiter.Allow(key) {
			s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
			response.TooManyRequests(w, "Too many requests. Please try again later.", retryAfter(limiter), s.logger)
			return
		}
		next(ctx)
	}}
}

// retryAfter is the time in whole seconds until one token is available.
func retryAfter(limiter *ratelimit.KeyedRateLimiter) int {
	rps := limiter.Rate()
	if rps <= 0 {
		return 0
	}
	return int(math.Ceil(1 / rps))
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
