package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/models"
	"github.com/vortexswap/vortex-go/security"
)

func gatewayConfig() *config.Config {
	return &config.Config{
		FeeRecipient:          "0xFee0000000000000000000000000000000000000",
		PlatformFeeBps:        30,
		HMACSecret:            "gateway-secret",
		AllowedOrigins:        []string{"http://localhost:3000"},
		AllowedOriginSuffixes: []string{".vortexswap.io"},
		Tiers: map[string]models.RateLimitTier{
			// Tight limits so tests hit the ceiling without sleeping: the
			// delay ramp never engages because DelayAfter exceeds Max.
			"standard": {Name: "standard", Window: time.Minute, Max: 3, DelayAfter: 10, MaxDelay: 0},
			"swap":     {Name: "swap", Window: time.Minute, Max: 3, DelayAfter: 10, MaxDelay: 0},
		},
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

func TestGuardSetsSecurityHeaders(t *testing.T) {
	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("standard", false, okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/swap/quote", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'self'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("X-Powered-By") != "" {
		t.Fatal("X-Powered-By should be stripped")
	}
}

func TestGuardOriginPolicy(t *testing.T) {
	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())

	cases := []struct {
		origin string
		code   int
	}{
		{"", http.StatusOK},
		{"http://localhost:3000", http.StatusOK},
		{"https://app.vortexswap.io", http.StatusOK},
		{"https://evil.example", http.StatusForbidden},
	}
	for _, c := range cases {
		h := m.Guard("standard", false, okHandler)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/swap/chains", nil)
		// Distinct client per case so the limiter never interferes.
		req.Header.Set("X-Forwarded-For", "10.0.0."+c.origin)
		if c.origin != "" {
			req.Header.Set("Origin", c.origin)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != c.code {
			t.Fatalf("origin %q: status = %d, want %d", c.origin, rec.Code, c.code)
		}
		if c.code == http.StatusForbidden {
			var body struct {
				Type string `json:"type"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding 403 body: %v", err)
			}
			if body.Type != string(errors.ErrOriginForbidden) {
				t.Fatalf("403 type = %q", body.Type)
			}
		}
	}
}

func TestGuardSignedRoute(t *testing.T) {
	cfg := gatewayConfig()
	m := NewMiddlewareHandler(cfg, zap.NewNop())
	h := m.Guard("swap", true, okHandler)

	body := `{"chainId":1,"fromToken":"ETH","toToken":"USDT","amount":"1000","fromAddress":"0x1111111111111111111111111111111111111111"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/swap/transaction", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unsigned request: status = %d, want 401", rec.Code)
	}

	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	signature := security.NewSignatureVerifier(cfg.HMACSecret).Sign([]byte(body), timestamp)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/swap/transaction", strings.NewReader(body))
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-Forwarded-For", "10.1.0.2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("signed request: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestGuardSignatureCoversSanitizedBody(t *testing.T) {
	// The sanitizer runs before signature verification, so callers must sign
	// the payload they actually send; a signature over different bytes fails.
	cfg := gatewayConfig()
	m := NewMiddlewareHandler(cfg, zap.NewNop())
	h := m.Guard("swap", true, okHandler)

	body := `{"amount":"1000"}`
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	signature := security.NewSignatureVerifier(cfg.HMACSecret).Sign([]byte(`{"amount":"9999"}`), timestamp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/swap/transaction", strings.NewReader(body))
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", timestamp)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered body: status = %d, want 401", rec.Code)
	}
}

func TestGuardRateLimitRejects(t *testing.T) {
	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("standard", false, okHandler)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/swap/quote", nil)
		req.Header.Set("X-Forwarded-For", "10.2.0.1")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
	}

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("4th request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 response missing Retry-After header")
	}
	var body struct {
		Type       string `json:"type"`
		RetryAfter int    `json:"retryAfter"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 429 body: %v", err)
	}
	if body.Type != string(errors.ErrRateLimited) {
		t.Fatalf("429 type = %q", body.Type)
	}
	if body.RetryAfter < 1 {
		t.Fatalf("retryAfter = %d, want >= 1", body.RetryAfter)
	}

	// Another client on the same route is unaffected.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/swap/quote", nil)
	req.Header.Set("X-Forwarded-For", "10.2.0.2")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh client: status = %d", rec.Code)
	}
}

func TestGuardSanitizesBodyBeforeHandler(t *testing.T) {
	var seen string
	echo := func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	}

	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("standard", false, echo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/security/risk",
		strings.NewReader(`{"note":"<script>alert(1)</script>hello","url":"javascript:evil()"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := `{"note":"hello","url":""}`
	if seen != want {
		t.Fatalf("handler saw %q, want %q", seen, want)
	}
}

func TestGuardSanitizesQueryBeforeHandler(t *testing.T) {
	var seen string
	echo := func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("fromToken")
		w.WriteHeader(http.StatusOK)
	}

	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("standard", false, echo)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/swap/quote?fromToken=%3Cscript%3Ex%3C%2Fscript%3EETH", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "ETH" {
		t.Fatalf("handler saw fromToken = %q, want ETH", seen)
	}
}

func TestGuardRecoversBindPanics(t *testing.T) {
	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("standard", false, func(w http.ResponseWriter, r *http.Request) {
		panic(errors.NewValidationError("chainId is required"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/swap/quote", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 400 body: %v", err)
	}
	if body.Type != string(errors.ErrValidation) || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestGuardUnknownTierPassesThrough(t *testing.T) {
	m := NewMiddlewareHandler(gatewayConfig(), zap.NewNop())
	h := m.Guard("no-such-tier", false, okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
