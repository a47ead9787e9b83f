package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"harjoitus/internal/metrics"
	"harjoitus/internal/security"
)

// TokenVerifier checks a bearer token. security.TokenIssuer implements it.
type TokenVerifier interface {
	Verify(token string) error
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	logger   *zap.Logger
	metrics  *metrics.Metrics
	verifier TokenVerifier
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance; every dependency but logger may be nil
func NewMiddleware(logger *zap.Logger, m *metrics.Metrics, verifier TokenVerifier, limiter *security.RateLimiter) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		logger:   logger,
		metrics:  m,
		verifier: verifier,
		limiter:  limiter,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
		if m.metrics != nil {
			m.metrics.Request(r.Method, rec.status)
		}
	})
}

// RequireToken rejects requests without a valid bearer token.
// Without a verifier every request passes.
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.verifier == nil {
			next(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			respondWithError(m.logger, w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		if err := m.verifier.Verify(token); err != nil {
			respondWithError(m.logger, w, http.StatusUnauthorized, ErrUnauthorized, "rejected bearer token", err)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}
		ip := m.limiter.ClientIP(r)
		if !m.limiter.Allow(ip) {
			m.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			http.Error(w, ErrTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
