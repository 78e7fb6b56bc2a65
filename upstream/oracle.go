package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vortexswap/vortex-go/config"
	"github.com/vortexswap/vortex-go/errors"
)

// PriceOracle returns a USD spot price for an asset identifier. A miss is a
// typed PriceUnavailable error so the quote fallback can surface it as-is.
type PriceOracle interface {
	USDPrice(ctx context.Context, symbol string) (float64, error)
}

// symbolIDs maps common asset symbols onto the price feed's asset ids.
var symbolIDs = map[string]string{
	"ETH":   "ethereum",
	"WETH":  "weth",
	"BTC":   "bitcoin",
	"WBTC":  "wrapped-bitcoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"DAI":   "dai",
	"BNB":   "binancecoin",
	"WBNB":  "wbnb",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"OP":    "optimism",
	"ARB":   "arbitrum",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
}

type httpPriceOracle struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewPriceOracle(cfg *config.Config, log *zap.Logger) PriceOracle {
	return &httpPriceOracle{
		baseURL: cfg.OracleBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

func (o *httpPriceOracle) USDPrice(ctx context.Context, symbol string) (float64, error) {
	id, ok := symbolIDs[strings.ToUpper(symbol)]
	if !ok {
		return 0, errors.NewPriceUnavailableError(symbol)
	}

	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", "usd")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/simple/price?%s", o.baseURL, q.Encode()), nil)
	if err != nil {
		return 0, errors.NewPriceUnavailableError(symbol)
	}

	res, err := o.client.Do(req)
	if err != nil {
		o.log.Warn("price oracle unreachable", zap.String("symbol", symbol), zap.Error(err))
		return 0, errors.NewPriceUnavailableError(symbol)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, errors.NewPriceUnavailableError(symbol)
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, errors.NewPriceUnavailableError(symbol)
	}
	price, ok := body[id]["usd"]
	if !ok || price <= 0 {
		return 0, errors.NewPriceUnavailableError(symbol)
	}
	return price, nil
}
