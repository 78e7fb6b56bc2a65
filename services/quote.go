package services

import (
	"context"
	"math/big"
	"time"

	"github.com/lucsky/cuid"
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/types/requests"
	"github.com/vortexswap/vortex-go/types/responses"
	"github.com/vortexswap/vortex-go/upstream"
	"github.com/vortexswap/vortex-go/utils"
)

// quoteFeeBps is the fixed 0.3% quote fee; floor(raw*30/10000) is the exact
// floor(raw*3/1000) of the pricing contract.
const quoteFeeBps = 30

const fallbackGasEstimate = "250000"

type QuoteSource string

const (
	SourcePrimary  QuoteSource = "primary"
	SourceFallback QuoteSource = "fallback"
)

// QuoteOutcome is a typed result so callers and tests can assert which path
// produced a quote instead of inferring it from response contents.
type QuoteOutcome struct {
	Source QuoteSource
	Quote  *responses.SwapQuoteResponseData
}

type QuoteService interface {
	GetQuote(ctx context.Context, req *requests.GetQuoteRequest) (*QuoteOutcome, error)
}

func NewQuoteService(cfg *config.Config, registry ChainRegistry, aggregator *upstream.AggregatorClient, oracle upstream.PriceOracle, tokens TokenService, log *zap.Logger) QuoteService {
	return &quoteService{
		service: service{
			config:     cfg,
			registry:   registry,
			aggregator: aggregator,
			oracle:     oracle,
			tokens:     tokens,
			log:        log,
		},
	}
}

type quoteService struct {
	service
}

func (q *quoteService) GetQuote(ctx context.Context, req *requests.GetQuoteRequest) (*QuoteOutcome, error) {
	if !q.registry.Supported(req.ChainID) {
		return nil, errors.NewUnsupportedChainError(req.ChainID)
	}

	amount, err := utils.ParseBaseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	slippageBps := utils.SlippageBps(float64(req.SlippagePercent))

	if q.aggregator.HasCredential() {
		route, err := q.aggregator.Quote(ctx, req.ChainID, req.FromToken, req.ToToken, req.Amount)
		if err == nil {
			return q.primaryQuote(req, amount, slippageBps, route)
		}
		// Deterministic switch to the fallback path; no retry, no partial
		// primary state carried over.
		q.log.Warn("primary quote path failed, falling back to oracle pricing",
			zap.Int("chain_id", req.ChainID),
			zap.String("from", req.FromToken),
			zap.String("to", req.ToToken),
			zap.Error(err),
		)
	}

	return q.fallbackQuote(ctx, req, amount, slippageBps)
}

func (q *quoteService) primaryQuote(req *requests.GetQuoteRequest, amount *big.Int, slippageBps int64, route *upstream.RouteQuote) (*QuoteOutcome, error) {
	raw, ok := new(big.Int).SetString(route.DstAmount, 10)
	if !ok {
		return nil, errors.NewUpstreamUnavailableError("routing service returned a malformed output amount")
	}

	protocols := route.Protocols
	if len(protocols) == 0 {
		protocols = []string{sourceAggregator}
	}
	gas := route.Gas
	if gas == "" || gas == "0" {
		gas = fallbackGasEstimate
	}

	quote := q.buildQuote(req, amount, raw, slippageBps, route.PriceImpact, gas, protocols)
	return &QuoteOutcome{Source: SourcePrimary, Quote: quote}, nil
}

// fallbackQuote prices the swap synthetically from independent USD spot
// prices when the routing service is unavailable.
func (q *quoteService) fallbackQuote(ctx context.Context, req *requests.GetQuoteRequest, amount *big.Int, slippageBps int64) (*QuoteOutcome, error) {
	priceFrom, err := q.oracle.USDPrice(ctx, req.FromToken)
	if err != nil {
		return nil, err
	}
	priceTo, err := q.oracle.USDPrice(ctx, req.ToToken)
	if err != nil {
		return nil, err
	}
	if priceFrom <= 0 {
		return nil, errors.NewPriceUnavailableError(req.FromToken)
	}
	if priceTo <= 0 {
		return nil, errors.NewPriceUnavailableError(req.ToToken)
	}

	decFrom := q.tokens.Decimals(req.ChainID, req.FromToken)
	decTo := q.tokens.Decimals(req.ChainID, req.ToToken)

	ratFrom := new(big.Rat).SetFloat64(priceFrom)
	ratTo := new(big.Rat).SetFloat64(priceTo)
	if ratFrom == nil || ratTo == nil || ratTo.Sign() == 0 {
		return nil, errors.NewPriceUnavailableError(req.ToToken)
	}

	amountDec := utils.BaseToDecimal(amount, decFrom)
	toAmountDec := new(big.Rat).Mul(amountDec, new(big.Rat).Quo(ratFrom, ratTo))

	// Re-quantize to base units before the fee step so both paths share the
	// exact integer fee/slippage math.
	raw := utils.DecimalToBase(toAmountDec, decTo)

	quote := q.buildQuote(req, amount, raw, slippageBps, 0, fallbackGasEstimate, []string{string(SourceFallback)})
	return &QuoteOutcome{Source: SourceFallback, Quote: quote}, nil
}

func (q *quoteService) buildQuote(req *requests.GetQuoteRequest, amount, raw *big.Int, slippageBps int64, priceImpact float64, gas string, protocols []string) *responses.SwapQuoteResponseData {
	fee := utils.FeeAmount(raw, quoteFeeBps)
	toAmount := new(big.Int).Sub(raw, fee)
	minReceived := utils.MinReceived(toAmount, slippageBps)

	decFrom := q.tokens.Decimals(req.ChainID, req.FromToken)
	decTo := q.tokens.Decimals(req.ChainID, req.ToToken)
	rate := utils.Ratio(utils.BaseToDecimal(toAmount, decTo), utils.BaseToDecimal(amount, decFrom))

	return &responses.SwapQuoteResponseData{
		ID:          cuid.New(),
		FromToken:   req.FromToken,
		ToToken:     req.ToToken,
		FromAmount:  amount.String(),
		ToAmount:    toAmount.String(),
		Rate:        rate,
		PriceImpact: priceImpact,
		Fee:         fee.String(),
		MinReceived: minReceived.String(),
		Route:       []string{req.FromToken, req.ToToken},
		Gas:         gas,
		Protocols:   protocols,
		CreatedAt:   time.Now().UTC(),
	}
}
