package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/errors"
	"github.com/vortexswap/vortex-go/models"
	"github.com/vortexswap/vortex-go/services"
	"github.com/vortexswap/vortex-go/types/requests"
	"github.com/vortexswap/vortex-go/types/responses"
	"github.com/vortexswap/vortex-go/utils"
)

type TokensHandler interface {
	GetSupportedTokens(w http.ResponseWriter, r *http.Request)
	GetChains(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewTokensHandler(tokenService services.TokenService, registry services.ChainRegistry, middlewares MiddleWareHandler, log *zap.Logger) TokensHandler {
	return &tokensHandler{
		handler: handler{
			tokenService: tokenService,
			registry:     registry,
			middlewares:  middlewares,
			log:          log,
		},
	}
}

type tokensHandler struct {
	handler
}

func (t *tokensHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/swap/tokens/{chain_id}", t.middlewares.Guard("standard", false, t.GetSupportedTokens))
	mux.HandleFunc("GET /api/v1/swap/chains", t.middlewares.Guard("standard", false, t.GetChains))
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, 200, map[string]any{"status": "ok"})
	})
}

func (t *tokensHandler) GetSupportedTokens(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.GetSupportedTokensRequest](r)
	chainID, _ := strconv.Atoi(req.ChainID)

	tokens, err := t.tokenService.GetSupportedTokens(r.Context(), chainID)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, &responses.Response[[]models.TokenDescriptor]{
		Status: "successful",
		Data:   tokens,
	})
}

func (t *tokensHandler) GetChains(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, 200, &responses.Response[[]models.ChainProfile]{
		Status: "successful",
		Data:   t.registry.Profiles(),
	})
}
