package utils

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

type MW func(http.HandlerFunc) http.HandlerFunc

func JSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

func Middleware(final http.HandlerFunc, h ...MW) http.HandlerFunc {
	for i := len(h) - 1; i >= 0; i-- {
		final = h[i](final)
	}
	return final
}

// ClientIP is the caller identity used for rate limiting and security events.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
