package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vortexswap/vortex-go/models"
)

// Config carries every externally supplied value the core consumes. It is
// loaded once at startup and passed explicitly into constructors; a missing
// required field fails the process before the first request.
type Config struct {
	Addr string

	AggregatorBaseURL string
	// AggregatorAPIKey is the routing-service credential. It may be empty:
	// quoting then degrades to the fallback path, but transaction building
	// refuses to run without it.
	AggregatorAPIKey string
	OracleBaseURL    string

	FeeRecipient   string
	PlatformFeeBps int

	HMACSecret string

	AllowedOrigins        []string
	AllowedOriginSuffixes []string

	BlacklistedAddresses []string

	Tiers map[string]models.RateLimitTier
}

func Load() (*Config, error) {
	viper.SetConfigName(".vortex")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("addr", ":8080")
	viper.SetDefault("aggregator_base_url", "https://api.1inch.dev/swap/v6.0")
	viper.SetDefault("oracle_base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("platform_fee_bps", 30)
	viper.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("allowed_origin_suffixes", []string{".vortexswap.io"})

	viper.SetEnvPrefix("VORTEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional; env vars alone are enough.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Addr:                  viper.GetString("addr"),
		AggregatorBaseURL:     strings.TrimSuffix(viper.GetString("aggregator_base_url"), "/"),
		AggregatorAPIKey:      viper.GetString("aggregator_api_key"),
		OracleBaseURL:         strings.TrimSuffix(viper.GetString("oracle_base_url"), "/"),
		FeeRecipient:          viper.GetString("fee_recipient"),
		PlatformFeeBps:        viper.GetInt("platform_fee_bps"),
		HMACSecret:            viper.GetString("hmac_secret"),
		AllowedOrigins:        viper.GetStringSlice("allowed_origins"),
		AllowedOriginSuffixes: viper.GetStringSlice("allowed_origin_suffixes"),
		BlacklistedAddresses:  viper.GetStringSlice("blacklisted_addresses"),
		Tiers:                 DefaultTiers(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FeeRecipient == "" {
		return fmt.Errorf("fee recipient address is required, set VORTEX_FEE_RECIPIENT")
	}
	if c.HMACSecret == "" {
		return fmt.Errorf("HMAC shared secret is required, set VORTEX_HMAC_SECRET")
	}
	if c.PlatformFeeBps < 0 || c.PlatformFeeBps >= 10000 {
		return fmt.Errorf("platform fee of %d bps is out of range [0, 10000)", c.PlatformFeeBps)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one rate limit tier is required")
	}
	for name, tier := range c.Tiers {
		if tier.Window <= 0 || tier.Max <= 0 {
			return fmt.Errorf("rate limit tier %q has a non-positive window or max", name)
		}
	}
	return nil
}

// OriginAllowed implements the origin policy: requests without a declared
// origin (non-browser clients) pass, otherwise the origin must match an
// allow-listed string exactly or end with an allow-listed domain suffix.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	for _, suffix := range c.AllowedOriginSuffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

func DefaultTiers() map[string]models.RateLimitTier {
	return map[string]models.RateLimitTier{
		"standard": {
			Name:       "standard",
			Window:     15 * time.Minute,
			Max:        100,
			DelayAfter: 50,
			MaxDelay:   3 * time.Second,
		},
		"swap": {
			Name:       "swap",
			Window:     time.Minute,
			Max:        10,
			DelayAfter: 5,
			MaxDelay:   3 * time.Second,
		},
	}
}
