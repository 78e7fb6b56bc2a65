package handlers

import (
	"net/http"

	"github.com/vortexswap/vortex-go/services"
	"go.uber.org/zap"
)

type handler struct {
	quoteService       services.QuoteService
	transactionService services.TransactionService
	tokenService       services.TokenService
	riskService        services.RiskService
	registry           services.ChainRegistry
	middlewares        MiddleWareHandler

	log *zap.Logger
}

type Handler interface {
	ServeHttp(*http.ServeMux)
}
