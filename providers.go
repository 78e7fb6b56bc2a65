package main

import (
	"context"
	"net"
	"net/http"
	"time"

	gorilla "github.com/gorilla/handlers"
	"github.com/madflojo/tasks"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/handlers"
)

func NewHttpServer(lc fx.Lifecycle, mux *http.ServeMux, cfg *config.Config, log *zap.Logger) *http.Server {
	// CORS/preflight handling lives at the outermost layer; the gateway's
	// origin stage enforces the 403 for disallowed browser origins.
	cors := gorilla.CORS(
		gorilla.AllowedOriginValidator(cfg.OriginAllowed),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorilla.AllowedHeaders([]string{"Content-Type", "X-Signature", "X-Timestamp"}),
	)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      cors(mux),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func NewScheduler(lc fx.Lifecycle) *tasks.Scheduler {
	scheduler := tasks.New()
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
	return scheduler
}

func NewServeMux(routers []handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	for _, router := range routers {
		router.ServeHttp(mux)
	}
	return mux
}
