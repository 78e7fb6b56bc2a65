package utils

import (
	"math"
	"math/big"

	"github.com/vortexswap/vortex-go/errors"
)

// All monetary arithmetic on base-unit amounts stays in big.Int space.
// Floats never touch an amount; they are only derived for display rates.

var bpsDenominator = big.NewInt(10000)

func ParseBaseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.NewValidationError("amount must be a non-negative decimal integer in base units")
	}
	return amount, nil
}

// FeeAmount is floor(raw * bps / 10000). At the default 30 bps this is the
// exact floor(raw * 3 / 1000) platform fee.
func FeeAmount(raw *big.Int, bps int) *big.Int {
	fee := new(big.Int).Mul(raw, big.NewInt(int64(bps)))
	return fee.Div(fee, bpsDenominator)
}

func SlippageBps(slippagePercent float64) int64 {
	return int64(math.Floor(slippagePercent * 100))
}

// MinReceived is floor(net * (10000 - slippageBps) / 10000).
func MinReceived(net *big.Int, slippageBps int64) *big.Int {
	if slippageBps < 0 {
		slippageBps = 0
	}
	if slippageBps > 10000 {
		slippageBps = 10000
	}
	min := new(big.Int).Mul(net, big.NewInt(10000-slippageBps))
	return min.Div(min, bpsDenominator)
}

func pow10(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

func BaseToDecimal(amount *big.Int, decimals int) *big.Rat {
	return new(big.Rat).SetFrac(new(big.Int).Set(amount), pow10(decimals))
}

// DecimalToBase re-quantizes a decimal amount to base units by flooring.
func DecimalToBase(v *big.Rat, decimals int) *big.Int {
	scaled := new(big.Rat).Mul(v, new(big.Rat).SetInt(pow10(decimals)))
	return new(big.Int).Div(scaled.Num(), scaled.Denom())
}

// Ratio is a display-only float; never fed back into amount math.
func Ratio(num, den *big.Rat) float64 {
	if den.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).Quo(num, den).Float64()
	return f
}
