package float

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"fpval/logic"
)

// DecimalString renders a finite value exactly in decimal: every binary
// fraction has a finite decimal expansion, so no rounding is involved.
// NaN and the infinities render as their names. It fails if any field
// carries unknown bits.
func (v Value) DecimalString() (string, error) {
	if !v.IsValid() {
		return "", fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	switch {
	case v.IsNaN():
		return "NaN", nil
	case v.IsInf():
		if v.Signbit() {
			return "-Inf", nil
		}
		return "+Inf", nil
	case v.IsZero():
		if v.Signbit() {
			return "-0", nil
		}
		return "0", nil
	}
	sig, exp := v.significand()
	var d decimal.Decimal
	if exp >= 0 {
		d = decimal.NewFromBigInt(new(big.Int).Lsh(sig, uint(exp)), 0)
	} else {
		// sig * 2^-k = sig * 5^k * 10^-k, still exact.
		k := uint(-exp)
		scaled := new(big.Int).Mul(sig, new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(k)), nil))
		d = decimal.NewFromBigInt(scaled, -int32(k))
	}
	if v.Signbit() {
		d = d.Neg()
	}
	return d.String(), nil
}
