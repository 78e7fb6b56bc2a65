package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/handlers"
	"github.com/vortexswap/vortex-go/services"
	"github.com/vortexswap/vortex-go/upstream"
)

func main() {
	_ = godotenv.Load()

	fx.New(
		fx.Provide(
			config.Load,
			NewHttpServer,
			fx.Annotate(
				NewServeMux,
				fx.ParamTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewSwapHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewTokensHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewRiskHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			handlers.NewMiddlewareHandler,
			services.NewChainRegistry,
			services.NewQuoteService,
			services.NewTransactionService,
			services.NewTokenService,
			services.NewRiskService,
			upstream.NewAggregatorClient,
			upstream.NewPriceOracle,
			NewScheduler,
			zap.NewProduction,
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
