package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/services"
	"github.com/vortexswap/vortex-go/types/requests"
	"github.com/vortexswap/vortex-go/types/responses"
	"github.com/vortexswap/vortex-go/utils"
)

type SwapHandler interface {
	GetQuote(w http.ResponseWriter, r *http.Request)
	BuildSwapTransaction(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewSwapHandler(quoteService services.QuoteService, transactionService services.TransactionService, middlewares MiddleWareHandler, log *zap.Logger) SwapHandler {
	return &swapHandler{
		handler: handler{
			quoteService:       quoteService,
			transactionService: transactionService,
			middlewares:        middlewares,
			log:                log,
		},
	}
}

type swapHandler struct {
	handler
}

func (s *swapHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/swap/quote", s.middlewares.Guard("standard", false, s.GetQuote))
	mux.HandleFunc("POST /api/v1/swap/transaction", s.middlewares.Guard("swap", true, s.BuildSwapTransaction))
}

func (s *swapHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.GetQuoteRequest](r)

	outcome, err := s.quoteService.GetQuote(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	if outcome.Source == services.SourceFallback {
		s.log.Info("served fallback quote", zap.String("quote_id", outcome.Quote.ID))
	}

	utils.JSON(w, 200, &responses.Response[*responses.SwapQuoteResponseData]{
		Status: "successful",
		Data:   outcome.Quote,
	})
}

func (s *swapHandler) BuildSwapTransaction(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.BuildSwapTransactionRequest](r)

	res, err := s.transactionService.BuildSwapTransaction(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}
