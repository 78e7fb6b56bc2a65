package models

type RiskFlag string

const (
	FlagLargeAmount        RiskFlag = "LARGE_AMOUNT"
	FlagLowGasPrice        RiskFlag = "LOW_GAS_PRICE"
	FlagSelfTransfer       RiskFlag = "SELF_TRANSFER"
	FlagBlacklistedAddress RiskFlag = "BLACKLISTED_ADDRESS"
)

type RiskRecommendation string

const (
	RecommendationApprove RiskRecommendation = "approve"
	RecommendationReview  RiskRecommendation = "review"
	RecommendationReject  RiskRecommendation = "reject"
)

type RiskAssessment struct {
	Score          int
	Flags          []RiskFlag
	Recommendation RiskRecommendation
}
