package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/models"
)

var upper = cases.Upper(language.English)

// RouteQuote is the routing service's priced estimate before the platform
// fee is applied. DstAmount is the raw output in base units.
type RouteQuote struct {
	DstAmount   string
	Gas         string
	PriceImpact float64
	Protocols   []string
}

type SwapParams struct {
	Src             string
	Dst             string
	Amount          string
	From            string
	SlippagePercent float64
	FeeBps          int
	FeeRecipient    string
}

type SwapCallData struct {
	From     string
	To       string
	Data     string
	Value    string
	Gas      string
	GasPrice string
}

// AggregatorClient talks to the external routing/pricing service. Outbound
// calls share a token-bucket guard so a hot quote loop cannot exhaust the
// upstream plan; the guard wait respects caller cancellation.
type AggregatorClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	guard   *rate.Limiter
	log     *zap.Logger
}

func NewAggregatorClient(cfg *config.Config, log *zap.Logger) *AggregatorClient {
	return &AggregatorClient{
		baseURL: cfg.AggregatorBaseURL,
		apiKey:  cfg.AggregatorAPIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		guard:   rate.NewLimiter(rate.Limit(10), 10),
		log:     log,
	}
}

func (c *AggregatorClient) HasCredential() bool {
	return c.apiKey != ""
}

type aggregatorQuoteResponse struct {
	DstAmount   string          `json:"dstAmount"`
	Gas         json.Number     `json:"gas"`
	PriceImpact float64         `json:"estimatedPriceImpact,string"`
	Protocols   [][][]struct {
		Name string `json:"name"`
	} `json:"protocols"`
}

type aggregatorSwapResponse struct {
	DstAmount string `json:"dstAmount"`
	Tx        struct {
		From     string      `json:"from"`
		To       string      `json:"to"`
		Data     string      `json:"data"`
		Value    string      `json:"value"`
		Gas      json.Number `json:"gas"`
		GasPrice string      `json:"gasPrice"`
	} `json:"tx"`
}

type aggregatorTokensResponse struct {
	Tokens map[string]struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		Decimals int    `json:"decimals"`
	} `json:"tokens"`
}

func (c *AggregatorClient) Quote(ctx context.Context, chainID int, src, dst, amount string) (*RouteQuote, error) {
	q := url.Values{}
	q.Set("src", src)
	q.Set("dst", dst)
	q.Set("amount", amount)

	var body aggregatorQuoteResponse
	if err := c.get(ctx, fmt.Sprintf("%s/%d/quote", c.baseURL, chainID), q, &body); err != nil {
		return nil, err
	}
	if body.DstAmount == "" {
		return nil, errors.NewUpstreamUnavailableError("routing service returned an empty quote")
	}

	quote := &RouteQuote{
		DstAmount:   body.DstAmount,
		Gas:         body.Gas.String(),
		PriceImpact: body.PriceImpact,
	}
	for _, hop := range body.Protocols {
		for _, split := range hop {
			for _, p := range split {
				quote.Protocols = append(quote.Protocols, p.Name)
			}
		}
	}
	return quote, nil
}

// BuildSwap asks the routing service for executable call data. The platform
// fee and its recipient ride along so the fee settles atomically inside the
// routed swap. Upstream failures carry the upstream status and message.
func (c *AggregatorClient) BuildSwap(ctx context.Context, chainID int, p SwapParams) (*SwapCallData, error) {
	q := url.Values{}
	q.Set("src", p.Src)
	q.Set("dst", p.Dst)
	q.Set("amount", p.Amount)
	q.Set("from", p.From)
	q.Set("slippage", fmt.Sprintf("%g", p.SlippagePercent))
	q.Set("fee", fmt.Sprintf("%g", float64(p.FeeBps)/100))
	q.Set("referrer", p.FeeRecipient)

	var body aggregatorSwapResponse
	if err := c.get(ctx, fmt.Sprintf("%s/%d/swap", c.baseURL, chainID), q, &body); err != nil {
		return nil, err
	}

	return &SwapCallData{
		From:     body.Tx.From,
		To:       body.Tx.To,
		Data:     body.Tx.Data,
		Value:    body.Tx.Value,
		Gas:      body.Tx.Gas.String(),
		GasPrice: body.Tx.GasPrice,
	}, nil
}

func (c *AggregatorClient) Tokens(ctx context.Context, chainID int) ([]models.TokenDescriptor, error) {
	var body aggregatorTokensResponse
	if err := c.get(ctx, fmt.Sprintf("%s/%d/tokens", c.baseURL, chainID), nil, &body); err != nil {
		return nil, err
	}

	tokens := make([]models.TokenDescriptor, 0, len(body.Tokens))
	for address, t := range body.Tokens {
		if t.Address == "" {
			t.Address = address
		}
		tokens = append(tokens, models.TokenDescriptor{
			Symbol:   upper.String(t.Symbol),
			Name:     t.Name,
			Address:  t.Address,
			Decimals: t.Decimals,
		})
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Symbol < tokens[j].Symbol })
	return tokens, nil
}

func (c *AggregatorClient) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if err := c.guard.Wait(ctx); err != nil {
		return errors.NewUpstreamUnavailableError(err.Error())
	}

	u := endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.NewUpstreamUnavailableError(err.Error())
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return errors.NewUpstreamUnavailableError(fmt.Sprintf("routing service unreachable: %v", err))
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return errors.NewUpstreamUnavailableError(fmt.Sprintf("reading routing service response: %v", err))
	}
	if res.StatusCode != http.StatusOK {
		c.log.Warn("routing service error",
			zap.Int("status", res.StatusCode),
			zap.String("endpoint", endpoint),
		)
		return errors.NewUpstreamUnavailableError(
			fmt.Sprintf("routing service returned %d: %s", res.StatusCode, upstreamMessage(payload)),
		)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.NewUpstreamUnavailableError(fmt.Sprintf("decoding routing service response: %v", err))
	}
	return nil
}

// upstreamMessage pulls the human message out of an upstream error body so it
// can be propagated verbatim; falls back to the raw payload.
func upstreamMessage(payload []byte) string {
	var body struct {
		Description string `json:"description"`
		Message     string `json:"message"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		switch {
		case body.Description != "":
			return body.Description
		case body.Message != "":
			return body.Message
		case body.Error != "":
			return body.Error
		}
	}
	return string(payload)
}
