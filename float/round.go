package float

import (
	"fmt"
	"math"
	"math/big"

	"fpval/internal/mathutil"
	"fpval/logic"
)

// RoundingMode selects how OfDouble fits a float64 into fewer mantissa
// bits.
type RoundingMode int

const (
	// RoundNearestEven rounds to the nearest representable value, breaking
	// ties toward the even mantissa. This is the default.
	RoundNearestEven RoundingMode = iota
	// RoundTruncate drops the discarded fraction bits.
	RoundTruncate
	// RoundNearestAway rounds to nearest, ties away from zero. Recognized
	// but not implemented.
	RoundNearestAway
	// RoundTowardPositive rounds toward positive infinity. Recognized but
	// not implemented.
	RoundTowardPositive
	// RoundTowardNegative rounds toward negative infinity. Recognized but
	// not implemented.
	RoundTowardNegative
)

var roundingNames = [...]string{
	RoundNearestEven:    "nearestEven",
	RoundTruncate:       "truncate",
	RoundNearestAway:    "nearestAway",
	RoundTowardPositive: "towardPositive",
	RoundTowardNegative: "towardNegative",
}

func (m RoundingMode) String() string {
	if m < 0 || int(m) >= len(roundingNames) {
		return fmt.Sprintf("roundingMode(%d)", int(m))
	}
	return roundingNames[m]
}

// ParseRoundingMode resolves a rounding mode name.
func ParseRoundingMode(name string) (RoundingMode, error) {
	for i, n := range roundingNames {
		if n == name {
			return RoundingMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedRounding, name)
}

type roundConfig struct {
	mode  RoundingMode
	clamp bool
}

// RoundOption adjusts how OfDouble converts.
type RoundOption func(*roundConfig)

// WithRounding selects the rounding mode. The default is RoundNearestEven.
func WithRounding(m RoundingMode) RoundOption {
	return func(c *roundConfig) { c.mode = m }
}

// WithFiniteClamp keeps the result finite: magnitudes beyond the format's
// range saturate to the largest finite value instead of failing or
// producing an infinity, and an infinite input maps to the largest finite
// value with its sign.
func WithFiniteClamp() RoundOption {
	return func(c *roundConfig) { c.clamp = true }
}

// OfDouble rounds a float64 into the format. RoundNearestEven and
// RoundTruncate are implemented; the other modes fail with
// ErrUnsupportedRounding. Range-checked formats (e4m3, e5m2) reject
// magnitudes outside their representable span unless WithFiniteClamp is
// given, and a format without infinities rejects an infinite input the
// same way.
func (p *Populator) OfDouble(d float64, opts ...RoundOption) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	cfg := roundConfig{mode: RoundNearestEven}
	for _, o := range opts {
		o(&cfg)
	}
	switch cfg.mode {
	case RoundNearestEven, RoundTruncate:
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedRounding, cfg.mode)
	}
	f := p.format
	if f.ExplicitJBit {
		inner, err := f.implicitTwin().Populator().OfDouble(d, opts...)
		if err != nil {
			return Value{}, err
		}
		return p.adoptExplicit(inner)
	}

	prof := f.profile()
	neg := math.Signbit(d)
	switch {
	case math.IsNaN(d):
		return p.OfConstant(NaN)
	case math.IsInf(d, 0):
		if cfg.clamp {
			return p.largestFiniteSigned(neg)
		}
		if prof.noInfinity {
			return Value{}, fmt.Errorf("%w: %s cannot hold %v", ErrInfinityUnsupported, f, d)
		}
		return p.infinity(neg)
	case d == 0:
		if neg {
			return p.OfConstant(NegativeZero)
		}
		return p.OfConstant(PositiveZero)
	}
	if prof.rangeCheck && !cfg.clamp {
		if a := math.Abs(d); a > prof.maxFinite {
			return Value{}, fmt.Errorf("%w: |%v| exceeds %s maximum %v",
				ErrRangeExceeded, d, f, prof.maxFinite)
		} else if a < prof.minFinite {
			return Value{}, fmt.Errorf("%w: |%v| is below %s minimum %v",
				ErrRangeExceeded, d, f, prof.minFinite)
		}
	}
	sig, exp := decomposeDouble(d)
	return p.fit(neg, sig, exp, cfg)
}

// decomposeDouble splits a finite nonzero double into its normalized
// 53-bit significand and unbiased exponent, so that |d| = sig * 2^(exp-52).
func decomposeDouble(d float64) (sig *big.Int, exp int) {
	b := math.Float64bits(d)
	e := int(b >> 52 & 0x7ff)
	sig = new(big.Int).SetUint64(b & (1<<52 - 1))
	if e == 0 {
		shift := mathutil.NormalizeShift(sig, 53)
		sig.Lsh(sig, shift)
		return sig, -1022 - int(shift)
	}
	sig.SetBit(sig, 52, 1)
	return sig, e - 1023
}

// fit places a positive significand into the format's fields under the
// given rounding mode. The incoming magnitude is sig * 2^(exp+1-bitlen):
// the leading set bit carries the weight 2^exp.
func (p *Populator) fit(neg bool, sig *big.Int, exp int, cfg roundConfig) (Value, error) {
	f := p.format
	m := f.MantissaWidth
	lead := sig.BitLen() - 1
	eb := exp + f.Bias()

	var mant *big.Int
	var guard, round, sticky bool
	if eb >= 1 {
		// Normal range: the leading bit becomes implicit, the next m bits
		// are kept, the rest round.
		frac := new(big.Int).SetBit(sig, lead, 0)
		if drop := lead - m; drop > 0 {
			mant, guard, round, sticky = mathutil.SplitRound(frac, uint(drop))
		} else {
			mant = new(big.Int).Lsh(frac, uint(-drop))
		}
	} else {
		// Subnormal range: the whole significand shifts under the format's
		// minimum scale, leading bit included.
		if drop := lead - m + (1 - eb); drop > 0 {
			mant, guard, round, sticky = mathutil.SplitRound(sig, uint(drop))
		} else {
			mant = new(big.Int).Lsh(sig, uint(-drop))
		}
		eb = 0
	}

	if cfg.mode == RoundNearestEven && mathutil.RoundNearestEven(mant.Bit(0) == 1, guard, round, sticky) {
		mant.Add(mant, big.NewInt(1))
		if mant.BitLen() > m {
			// Mantissa overflow rolls into the exponent; at eb 0 this is
			// the subnormal-to-normal promotion.
			mant.SetInt64(0)
			eb++
		}
	}
	if f.SubnormalAsZero && eb == 0 {
		mant.SetInt64(0)
	}

	maxCode := 1<<uint(f.ExponentWidth) - 1
	prof := f.profile()
	if prof.noInfinity {
		if eb > maxCode || eb == maxCode && mant.Cmp(mathutil.Ones(uint(m))) == 0 {
			// Past the largest finite value, with no infinity to saturate
			// to: clamp, the way saturating hardware conversions do.
			return p.largestFiniteSigned(neg)
		}
	} else if eb >= maxCode {
		if cfg.clamp {
			return p.largestFiniteSigned(neg)
		}
		return p.infinity(neg)
	}
	return p.populate(
		logic.FromBool(neg),
		logic.FromUint(uint64(eb), f.ExponentWidth),
		logic.FromBig(mant, f.MantissaWidth),
	)
}

func (p *Populator) infinity(neg bool) (Value, error) {
	if neg {
		return p.OfConstant(NegativeInfinity)
	}
	return p.OfConstant(PositiveInfinity)
}

func (p *Populator) largestFiniteSigned(neg bool) (Value, error) {
	v, err := p.OfConstant(LargestNormal)
	if err != nil || !neg {
		return v, err
	}
	return v.Neg(), nil
}
