package responses

import (
	"encoding/json"
	"testing"
)

func TestSwapQuoteSerializesContractKeys(t *testing.T) {
	data, err := json.Marshal(&SwapQuoteResponseData{
		FromToken:   "ETH",
		ToToken:     "USDT",
		FromAmount:  "1000000000000000000",
		ToAmount:    "1994000000",
		Rate:        1994,
		PriceImpact: 0.02,
		Fee:         "6000000",
		MinReceived: "1984030000",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"fromToken", "toToken", "fromAmount", "toAmount",
		"rate", "priceImpact", "fee", "minReceived",
		"route", "gas", "protocols",
	} {
		if _, ok := out[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}

	if _, ok := out["rate"].(float64); !ok {
		t.Fatalf("rate serialized as %T, want a bare number", out["rate"])
	}
	if _, ok := out["priceImpact"].(float64); !ok {
		t.Fatalf("priceImpact serialized as %T, want a bare number", out["priceImpact"])
	}
}
