package services

import (
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/upstream"
)

// service is the shared dependency base embedded by every concrete service.
type service struct {
	config     *config.Config
	registry   ChainRegistry
	aggregator *upstream.AggregatorClient
	oracle     upstream.PriceOracle
	tokens     TokenService
	log        *zap.Logger
}
