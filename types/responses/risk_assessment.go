package responses

type RiskAssessmentResponseData struct {
	Score          int      `json:"score"`
	Flags          []string `json:"flags"`
	Recommendation string   `json:"recommendation"`
}
