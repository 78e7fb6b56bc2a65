package requests

import "github.com/vortexswap/vortex-go/models"

type BuildSwapTransactionRequest struct {
	ChainID         int           `json:"chainId" validate:"required"`
	FromToken       string        `json:"fromToken" validate:"required"`
	ToToken         string        `json:"toToken" validate:"required"`
	Amount          string        `json:"amount" validate:"required,number"`
	FromAddress     string        `json:"fromAddress" validate:"required"`
	SlippagePercent models.Double `json:"slippagePercent" default:"0.5" validate:"gte=0,lte=100"`
}
