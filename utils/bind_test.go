package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vortexswap/vortex-go/types/requests"
)

func TestBindReadsSlippagePercentQueryKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/swap/quote?chainId=1&fromToken=ETH&toToken=USDT&amount=1000&slippagePercent=5", nil)

	req := Bind[requests.GetQuoteRequest](r)
	if float64(req.SlippagePercent) != 5 {
		t.Fatalf("SlippagePercent = %v, want 5", req.SlippagePercent)
	}
}

func TestBindDefaultsSlippageWhenAbsent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/swap/quote?chainId=1&fromToken=ETH&toToken=USDT&amount=1000", nil)

	req := Bind[requests.GetQuoteRequest](r)
	if float64(req.SlippagePercent) != 0.5 {
		t.Fatalf("SlippagePercent = %v, want the 0.5 default", req.SlippagePercent)
	}
}
