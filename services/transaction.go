package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/types/requests"
	"github.com/vortexswap/vortex-go/types/responses"
	"github.com/vortexswap/vortex-go/upstream"
)

type TransactionService interface {
	BuildSwapTransaction(ctx context.Context, req *requests.BuildSwapTransactionRequest) (*responses.Response[*responses.SwapTransactionResponseData], error)
}

func NewTransactionService(cfg *config.Config, registry ChainRegistry, aggregator *upstream.AggregatorClient, log *zap.Logger) TransactionService {
	return &transactionService{
		service: service{
			config:     cfg,
			registry:   registry,
			aggregator: aggregator,
			log:        log,
		},
	}
}

type transactionService struct {
	service
}

// BuildSwapTransaction converts an accepted quote request into executable
// call data. There is no synthetic path here: building real transactions
// controls fund movement, so a missing credential or an upstream failure is
// surfaced rather than substituted.
func (t *transactionService) BuildSwapTransaction(ctx context.Context, req *requests.BuildSwapTransactionRequest) (*responses.Response[*responses.SwapTransactionResponseData], error) {
	if !t.registry.Supported(req.ChainID) {
		return nil, errors.NewUnsupportedChainError(req.ChainID)
	}
	if !t.aggregator.HasCredential() {
		return nil, errors.NewCredentialRequiredError()
	}

	call, err := t.aggregator.BuildSwap(ctx, req.ChainID, upstream.SwapParams{
		Src:             req.FromToken,
		Dst:             req.ToToken,
		Amount:          req.Amount,
		From:            req.FromAddress,
		SlippagePercent: float64(req.SlippagePercent),
		FeeBps:          t.config.PlatformFeeBps,
		FeeRecipient:    t.config.FeeRecipient,
	})
	if err != nil {
		return nil, err
	}

	t.log.Info("built swap transaction",
		zap.Int("chain_id", req.ChainID),
		zap.String("from", req.FromToken),
		zap.String("to", req.ToToken),
	)

	return &responses.Response[*responses.SwapTransactionResponseData]{
		Status: "successful",
		Data: &responses.SwapTransactionResponseData{
			From:     call.From,
			To:       call.To,
			Data:     call.Data,
			Value:    call.Value,
			Gas:      call.Gas,
			GasPrice: call.GasPrice,
		},
	}, nil
}
