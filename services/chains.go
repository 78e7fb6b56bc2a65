package services

import (
	"sort"

	"github.com/vortexswap/vortex-go/models"
)

const sourceAggregator = "aggregator"

// chainProfiles is static configuration loaded at startup; the pricing
// backend decides which chains it can route.
var chainProfiles = map[int]models.ChainProfile{
	1:     {ChainID: 1, Name: "Ethereum", Supported: true, Source: sourceAggregator},
	10:    {ChainID: 10, Name: "Optimism", Supported: true, Source: sourceAggregator},
	56:    {ChainID: 56, Name: "BNB Smart Chain", Supported: true, Source: sourceAggregator},
	137:   {ChainID: 137, Name: "Polygon", Supported: true, Source: sourceAggregator},
	8453:  {ChainID: 8453, Name: "Base", Supported: true, Source: sourceAggregator},
	42161: {ChainID: 42161, Name: "Arbitrum One", Supported: true, Source: sourceAggregator},
	43114: {ChainID: 43114, Name: "Avalanche C-Chain", Supported: true, Source: sourceAggregator},
}

type ChainRegistry interface {
	Lookup(chainID int) (models.ChainProfile, bool)
	Supported(chainID int) bool
	Profiles() []models.ChainProfile
}

func NewChainRegistry() ChainRegistry {
	return &chainRegistry{profiles: chainProfiles}
}

type chainRegistry struct {
	profiles map[int]models.ChainProfile
}

func (c *chainRegistry) Lookup(chainID int) (models.ChainProfile, bool) {
	p, ok := c.profiles[chainID]
	return p, ok
}

func (c *chainRegistry) Supported(chainID int) bool {
	p, ok := c.profiles[chainID]
	return ok && p.Supported
}

func (c *chainRegistry) Profiles() []models.ChainProfile {
	out := make([]models.ChainProfile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}
