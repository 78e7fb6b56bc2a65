package utils

import (
	"math/big"
	"testing"
)

func TestFeeAmountMatchesThreePerMille(t *testing.T) {
	for _, raw := range []string{"0", "1", "999", "1000", "123456789123456789", "2000000000"} {
		rawInt, _ := new(big.Int).SetString(raw, 10)
		fee := FeeAmount(rawInt, 30)

		want := new(big.Int).Mul(rawInt, big.NewInt(3))
		want.Div(want, big.NewInt(1000))
		if fee.Cmp(want) != 0 {
			t.Fatalf("FeeAmount(%s, 30) = %s, want floor(raw*3/1000) = %s", raw, fee, want)
		}
	}
}

func TestFeeRoundTripWithinOneBaseUnit(t *testing.T) {
	raw, _ := new(big.Int).SetString("987654321987654321", 10)
	fee := FeeAmount(raw, 30)
	toAmount := new(big.Int).Sub(raw, fee)

	sum := new(big.Int).Add(toAmount, fee)
	diff := new(big.Int).Sub(raw, sum)
	if diff.CmpAbs(big.NewInt(1)) > 0 {
		t.Fatalf("toAmount + fee = %s, want %s within one base unit", sum, raw)
	}
}

func TestMinReceivedNonIncreasingInSlippage(t *testing.T) {
	net, _ := new(big.Int).SetString("1994000000000000000", 10)

	prev := new(big.Int).Set(net)
	for pct := 0.0; pct <= 100.0; pct += 0.5 {
		min := MinReceived(net, SlippageBps(pct))
		if min.Cmp(net) > 0 {
			t.Fatalf("minReceived %s exceeds net %s at slippage %v", min, net, pct)
		}
		if min.Cmp(prev) > 0 {
			t.Fatalf("minReceived increased from %s to %s at slippage %v", prev, min, pct)
		}
		prev = min
	}

	if prev.Sign() != 0 {
		t.Fatalf("minReceived at 100%% slippage = %s, want 0", prev)
	}
}

func TestSlippageBpsFloors(t *testing.T) {
	cases := map[float64]int64{0: 0, 0.5: 50, 0.059: 5, 1: 100, 100: 10000}
	for pct, want := range cases {
		if got := SlippageBps(pct); got != want {
			t.Fatalf("SlippageBps(%v) = %d, want %d", pct, got, want)
		}
	}
}

func TestDecimalBaseRoundTrip(t *testing.T) {
	amount, _ := new(big.Int).SetString("1500000000000000000", 10)
	dec := BaseToDecimal(amount, 18)
	back := DecimalToBase(dec, 18)
	if back.Cmp(amount) != 0 {
		t.Fatalf("round trip changed amount: %s -> %s", amount, back)
	}
}

func TestDecimalToBaseFloors(t *testing.T) {
	v := new(big.Rat).SetFrac64(10, 3) // 3.333...
	got := DecimalToBase(v, 2)
	if got.Cmp(big.NewInt(333)) != 0 {
		t.Fatalf("DecimalToBase(10/3, 2) = %s, want 333", got)
	}
}

func TestParseBaseAmountRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "1.5", "-3", "0x10", "ten"} {
		if _, err := ParseBaseAmount(bad); err == nil {
			t.Fatalf("ParseBaseAmount(%q) accepted invalid input", bad)
		}
	}
	amount, err := ParseBaseAmount("1000000000000000000")
	if err != nil {
		t.Fatalf("ParseBaseAmount rejected valid input: %v", err)
	}
	if amount.String() != "1000000000000000000" {
		t.Fatalf("unexpected parsed amount %s", amount)
	}
}
