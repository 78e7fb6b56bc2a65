package requests

import "github.com/vortexswap/vortex-go/models"

type ScoreTransactionRequest struct {
	FromAddress string        `json:"fromAddress" validate:"required"`
	ToAddress   string        `json:"toAddress" validate:"required"`
	Amount      models.Double `json:"amount" validate:"required,gt=0"`
	GasPrice    string        `json:"gasPrice" validate:"omitempty,number"`
}
