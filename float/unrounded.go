package float

import (
	"math"
	"math/big"
)

// OfDoubleUnrounded converts a float64 by truncation, computing the result
// from the exact scaled integer form of the input rather than from its
// bit fields. It is the reference for the rounding engine: for any finite
// input inside the format's range the result matches OfDouble under
// RoundTruncate bit for bit. Out-of-range magnitudes saturate instead of
// failing: overflow goes to infinity, or to the largest finite value in a
// format without infinities, and underflow falls through the subnormal
// range to a signed zero.
func (p *Populator) OfDoubleUnrounded(d float64) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if f.ExplicitJBit {
		inner, err := f.implicitTwin().Populator().OfDoubleUnrounded(d)
		if err != nil {
			return Value{}, err
		}
		return p.adoptExplicit(inner)
	}
	neg := math.Signbit(d)
	switch {
	case math.IsNaN(d):
		return p.OfConstant(NaN)
	case math.IsInf(d, 0):
		if f.profile().noInfinity {
			return p.largestFiniteSigned(neg)
		}
		return p.infinity(neg)
	case d == 0:
		if neg {
			return p.OfConstant(NegativeZero)
		}
		return p.OfConstant(PositiveZero)
	}

	// Double the magnitude until nothing is left behind the binary point.
	// A float64 fraction is dyadic, so the loop always terminates; the
	// shift count recovers the scale afterwards.
	a := math.Abs(d)
	shifts := 0
	for a != math.Trunc(a) {
		a *= 2
		shifts++
	}
	sig, _ := big.NewFloat(a).Int(nil)

	// Guarantee mantissa plus guard/round/sticky headroom below the
	// leading bit, so the truncation below never runs out of resolution.
	if extra := f.MantissaWidth + 3 - (sig.BitLen() - 1); extra > 0 {
		sig.Lsh(sig, uint(extra))
		shifts += extra
	}
	exp := sig.BitLen() - 1 - shifts
	return p.fit(neg, sig, exp, roundConfig{mode: RoundTruncate})
}
