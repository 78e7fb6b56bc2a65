package requests

import "github.com/vortexswap/vortex-go/models"

type GetQuoteRequest struct {
	ChainID         int           `query:"chainId" json:"chainId" validate:"required"`
	FromToken       string        `query:"fromToken" json:"fromToken" validate:"required"`
	ToToken         string        `query:"toToken" json:"toToken" validate:"required"`
	Amount          string        `query:"amount" json:"amount" validate:"required,number"`
	SlippagePercent models.Double `query:"slippagePercent" json:"slippagePercent" default:"0.5" validate:"gte=0,lte=100"`
}
