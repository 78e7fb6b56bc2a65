package responses

import "time"

type SwapQuoteResponseData struct {
	ID          string    `json:"id"`
	FromToken   string    `json:"fromToken"`
	ToToken     string    `json:"toToken"`
	FromAmount  string    `json:"fromAmount"`
	ToAmount    string    `json:"toAmount"`
	Rate        float64   `json:"rate"`
	PriceImpact float64   `json:"priceImpact"`
	Fee         string    `json:"fee"`
	MinReceived string    `json:"minReceived"`
	Route       []string  `json:"route"`
	Gas         string    `json:"gas"`
	Protocols   []string  `json:"protocols"`
	CreatedAt   time.Time `json:"createdAt"`
}
