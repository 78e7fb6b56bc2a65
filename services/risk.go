package services

import (
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/models"
	"github.com/vortexswap/vortex-go/types/requests"
)

// Heuristic thresholds. Amount is a display-unit heuristic; gas price is in
// the smallest gas-price unit (wei), 1e9 == 1 gwei.
const (
	largeAmountThreshold = 1_000_000
	rejectThreshold      = 70
	reviewThreshold      = 40
)

var lowGasPriceThreshold = big.NewInt(1_000_000_000)

type RiskService interface {
	ScoreTransaction(req *requests.ScoreTransactionRequest) *models.RiskAssessment
}

func NewRiskService(cfg *config.Config, log *zap.Logger) RiskService {
	blacklist := make(map[string]struct{}, len(cfg.BlacklistedAddresses))
	for _, addr := range cfg.BlacklistedAddresses {
		blacklist[strings.ToLower(addr)] = struct{}{}
	}
	return &riskService{blacklist: blacklist, log: log}
}

type riskService struct {
	blacklist map[string]struct{}
	log       *zap.Logger
}

// ScoreTransaction is a pure heuristic: flags accumulate additively with no
// explicit cap, so a pathological input can push the score near or past 100.
func (r *riskService) ScoreTransaction(req *requests.ScoreTransactionRequest) *models.RiskAssessment {
	score := 0
	flags := []models.RiskFlag{}

	if float64(req.Amount) > largeAmountThreshold {
		flags = append(flags, models.FlagLargeAmount)
		score += 30
	}

	if req.GasPrice != "" {
		if gasPrice, ok := new(big.Int).SetString(req.GasPrice, 10); ok && gasPrice.Cmp(lowGasPriceThreshold) < 0 {
			flags = append(flags, models.FlagLowGasPrice)
			score += 20
		}
	}

	if strings.EqualFold(req.FromAddress, req.ToAddress) {
		flags = append(flags, models.FlagSelfTransfer)
		score += 15
	}

	if r.blacklisted(req.FromAddress) || r.blacklisted(req.ToAddress) {
		flags = append(flags, models.FlagBlacklistedAddress)
		score += 50
	}

	recommendation := models.RecommendationApprove
	switch {
	case score >= rejectThreshold:
		recommendation = models.RecommendationReject
	case score >= reviewThreshold:
		recommendation = models.RecommendationReview
	}

	return &models.RiskAssessment{
		Score:          score,
		Flags:          flags,
		Recommendation: recommendation,
	}
}

func (r *riskService) blacklisted(addr string) bool {
	_, ok := r.blacklist[strings.ToLower(addr)]
	return ok
}
