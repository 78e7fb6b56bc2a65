package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/security"
	"github.com/vortexswap/vortex-go/utils"
)

// MiddleWareHandler is the security gateway. Guard composes the fixed stage
// order in front of a handler: rate limit, speed limit, security headers,
// input sanitizer, signature verification (opt-in per route), origin policy.
type MiddleWareHandler interface {
	Guard(tier string, signed bool, h http.HandlerFunc) http.HandlerFunc

	RateLimit(tier string) utils.MW
	SecureHeaders(h http.HandlerFunc) http.HandlerFunc
	SanitizeRequest(h http.HandlerFunc) http.HandlerFunc
	VerifySignature(h http.HandlerFunc) http.HandlerFunc
	CheckOrigin(h http.HandlerFunc) http.HandlerFunc
}

type middlewareHandler struct {
	config   *config.Config
	limiters *security.LimiterFactory
	verifier *security.SignatureVerifier

	log *zap.Logger
}

func NewMiddlewareHandler(cfg *config.Config, log *zap.Logger) MiddleWareHandler {
	return &middlewareHandler{
		config:   cfg,
		limiters: security.NewLimiterFactory(cfg.Tiers),
		verifier: security.NewSignatureVerifier(cfg.HMACSecret),
		log:      log,
	}
}

func (m *middlewareHandler) Guard(tier string, signed bool, h http.HandlerFunc) http.HandlerFunc {
	stages := []utils.MW{
		m.RateLimit(tier),
		m.SecureHeaders,
		m.SanitizeRequest,
	}
	if signed {
		stages = append(stages, m.VerifySignature)
	}
	stages = append(stages, m.CheckOrigin)

	return m.observe(utils.Middleware(h, stages...))
}

// observe wraps every guarded route: it recovers binder panics into
// serialized AppErrors and emits a security event whenever the pipeline
// terminates a request with 401, 403 or 429.
func (m *middlewareHandler) observe(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				apperr, ok := p.(errors.AppError)
				if !ok {
					apperr = errors.NewUnknownError(p)
				}
				rec.status = apperr.Code
				apperr.Serialize(rec)
			}
			switch rec.status {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
				m.log.Warn("security event",
					zap.String("request_id", uuid.NewString()),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.status),
					zap.String("client_ip", utils.ClientIP(r)),
					zap.String("user_agent", r.UserAgent()),
					zap.Duration("duration", time.Since(start)),
				)
			}
		}()

		h.ServeHTTP(rec, r)
	}
}

// RateLimit covers stages 1 and 2: the windowed counter rejects with 429 and
// a window-derived retryAfter, the speed limiter only delays, bounded by the
// tier's cap, before handing the request on.
func (m *middlewareHandler) RateLimit(tier string) utils.MW {
	return func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			limiter, ok := m.limiters.Tier(tier)
			if !ok {
				h.ServeHTTP(w, r)
				return
			}

			decision := limiter.Take(utils.ClientIP(r), time.Now())
			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				errors.NewRateLimitedError(retryAfter).Serialize(w)
				return
			}
			if decision.Delay > 0 {
				select {
				case <-time.After(decision.Delay):
				case <-r.Context().Done():
					return
				}
			}

			h.ServeHTTP(w, r)
		}
	}
}

var securityHeaders = map[string]string{
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"X-XSS-Protection":          "1; mode=block",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"Content-Security-Policy":   "default-src 'self'",
}

func (m *middlewareHandler) SecureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range securityHeaders {
			w.Header().Set(k, v)
		}
		// Never advertise the server technology.
		w.Header().Del("Server")
		w.Header().Del("X-Powered-By")

		h.ServeHTTP(w, r)
	}
}

// SanitizeRequest rewrites the JSON body and the query string with dangerous
// substrings stripped, preserving structure and parameter order, before any
// handler binds them.
func (m *middlewareHandler) SanitizeRequest(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength != 0 {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				errors.NewValidationError("unreadable request body").Serialize(w)
				return
			}
			clean := security.SanitizeJSON(body)
			r.Body = io.NopCloser(bytes.NewReader(clean))
			r.ContentLength = int64(len(clean))
		}

		if r.URL.RawQuery != "" {
			r.URL.RawQuery = security.SanitizeRawQuery(r.URL.RawQuery)
		}

		h.ServeHTTP(w, r)
	}
}

func (m *middlewareHandler) VerifySignature(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				errors.NewValidationError("unreadable request body").Serialize(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		err := m.verifier.Verify(body, r.Header.Get("X-Signature"), r.Header.Get("X-Timestamp"))
		if err != nil {
			errors.AsAppError(err).Serialize(w)
			return
		}

		h.ServeHTTP(w, r)
	}
}

func (m *middlewareHandler) CheckOrigin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !m.config.OriginAllowed(origin) {
			errors.NewOriginForbiddenError(origin).Serialize(w)
			return
		}

		h.ServeHTTP(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
