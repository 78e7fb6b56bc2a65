package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/madflojo/tasks"
	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/models"
	"github.com/vortexswap/vortex-go/upstream"
)

const nativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// defaultTokens is the static built-in catalog for recognized chains; served
// whenever the external source is unreachable so identical input always
// yields the same fallback content.
var defaultTokens = map[int][]models.TokenDescriptor{
	1: {
		{Symbol: "ETH", Name: "Ether", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18},
		{Symbol: "WBTC", Name: "Wrapped BTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8},
	},
	10: {
		{Symbol: "ETH", Name: "Ether", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "OP", Name: "Optimism", Address: "0x4200000000000000000000000000000000000042", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6},
	},
	56: {
		{Symbol: "BNB", Name: "BNB", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "WBNB", Name: "Wrapped BNB", Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Decimals: 18},
		{Symbol: "USDT", Name: "Tether USD", Address: "0x55d398326f99059fF775485246999027B3197955", Decimals: 18},
	},
	137: {
		{Symbol: "MATIC", Name: "Polygon", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Decimals: 6},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6},
	},
	8453: {
		{Symbol: "ETH", Name: "Ether", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
	},
	42161: {
		{Symbol: "ETH", Name: "Ether", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "ARB", Name: "Arbitrum", Address: "0x912CE59144191C1204E64559FE8253a0e49E6548", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
	},
	43114: {
		{Symbol: "AVAX", Name: "Avalanche", Address: nativeTokenAddress, Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6},
	},
}

type TokenService interface {
	GetSupportedTokens(ctx context.Context, chainID int) ([]models.TokenDescriptor, error)
	Decimals(chainID int, token string) int
}

func NewTokenService(cfg *config.Config, registry ChainRegistry, aggregator *upstream.AggregatorClient, scheduler *tasks.Scheduler, log *zap.Logger) TokenService {
	t := &tokenService{
		service: service{
			config:     cfg,
			registry:   registry,
			aggregator: aggregator,
			log:        log,
		},
		warm: make(map[int][]models.TokenDescriptor),
	}

	if scheduler != nil {
		// Keep a warm copy of the upstream catalog so transient outages
		// serve recent data instead of the static table.
		if _, err := scheduler.Add(&tasks.Task{
			Interval: 10 * time.Minute,
			TaskFunc: func() error {
				t.refresh()
				return nil
			},
		}); err != nil {
			log.Warn("scheduling token catalog refresh", zap.Error(err))
		}
	}

	return t
}

type tokenService struct {
	service

	mu   sync.RWMutex
	warm map[int][]models.TokenDescriptor
}

func (t *tokenService) GetSupportedTokens(ctx context.Context, chainID int) ([]models.TokenDescriptor, error) {
	tokens, err := t.aggregator.Tokens(ctx, chainID)
	if err == nil && len(tokens) > 0 {
		t.mu.Lock()
		t.warm[chainID] = tokens
		t.mu.Unlock()
		return tokens, nil
	}
	if err != nil {
		t.log.Warn("token catalog upstream failed, serving fallback",
			zap.Int("chain_id", chainID), zap.Error(err))
	}

	t.mu.RLock()
	warm := t.warm[chainID]
	t.mu.RUnlock()
	if len(warm) > 0 {
		return warm, nil
	}

	if static, ok := defaultTokens[chainID]; ok {
		return static, nil
	}
	return []models.TokenDescriptor{}, nil
}

// Decimals resolves a token's base-unit exponent from the warm or static
// catalog; unknown assets are assumed to carry the 18-decimal default.
func (t *tokenService) Decimals(chainID int, token string) int {
	t.mu.RLock()
	warm := t.warm[chainID]
	t.mu.RUnlock()

	for _, list := range [][]models.TokenDescriptor{warm, defaultTokens[chainID]} {
		for _, desc := range list {
			if strings.EqualFold(desc.Symbol, token) || strings.EqualFold(desc.Address, token) {
				return desc.Decimals
			}
		}
	}
	return 18
}

func (t *tokenService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, profile := range t.registry.Profiles() {
		if !profile.Supported {
			continue
		}
		tokens, err := t.aggregator.Tokens(ctx, profile.ChainID)
		if err != nil || len(tokens) == 0 {
			continue
		}
		t.mu.Lock()
		t.warm[profile.ChainID] = tokens
		t.mu.Unlock()
	}
}
