package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/services"
	"github.com/vortexswap/vortex-go/types/requests"
	"github.com/vortexswap/vortex-go/types/responses"
	"github.com/vortexswap/vortex-go/utils"
)

type RiskHandler interface {
	ScoreTransaction(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewRiskHandler(riskService services.RiskService, middlewares MiddleWareHandler, log *zap.Logger) RiskHandler {
	return &riskHandler{
		handler: handler{
			riskService: riskService,
			middlewares: middlewares,
			log:         log,
		},
	}
}

type riskHandler struct {
	handler
}

func (h *riskHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/security/risk", h.middlewares.Guard("standard", false, h.ScoreTransaction))
}

func (h *riskHandler) ScoreTransaction(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.ScoreTransactionRequest](r)

	assessment := h.riskService.ScoreTransaction(req)

	flags := make([]string, len(assessment.Flags))
	for i, f := range assessment.Flags {
		flags[i] = string(f)
	}

	utils.JSON(w, 200, &responses.Response[*responses.RiskAssessmentResponseData]{
		Status: "successful",
		Data: &responses.RiskAssessmentResponseData{
			Score:          assessment.Score,
			Flags:          flags,
			Recommendation: string(assessment.Recommendation),
		},
	})
}
