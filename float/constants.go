package float

import (
	"fmt"
	"math/big"

	"fpval/internal/mathutil"
)

// Constant names one of the critical points of a format's encoding space.
// The catalog is ordered by the value each constant denotes.
type Constant int

const (
	NegativeInfinity Constant = iota
	NegativeZero
	PositiveZero
	SmallestPositiveSubnormal
	LargestPositiveSubnormal
	SmallestPositiveNormal
	LargestLessThanOne
	One
	SmallestLargerThanOne
	LargestNormal
	PositiveInfinity
	NaN
)

var constantNames = [...]string{
	NegativeInfinity:          "negativeInfinity",
	NegativeZero:              "negativeZero",
	PositiveZero:              "positiveZero",
	SmallestPositiveSubnormal: "smallestPositiveSubnormal",
	LargestPositiveSubnormal:  "largestPositiveSubnormal",
	SmallestPositiveNormal:    "smallestPositiveNormal",
	LargestLessThanOne:        "largestLessThanOne",
	One:                       "one",
	SmallestLargerThanOne:     "smallestLargerThanOne",
	LargestNormal:             "largestNormal",
	PositiveInfinity:          "positiveInfinity",
	NaN:                       "nan",
}

func (c Constant) String() string {
	if c < 0 || int(c) >= len(constantNames) {
		return fmt.Sprintf("constant(%d)", int(c))
	}
	return constantNames[c]
}

// Constants lists the whole catalog in ascending value order.
func Constants() []Constant {
	out := make([]Constant, len(constantNames))
	for i := range out {
		out[i] = Constant(i)
	}
	return out
}

// constantFields returns the sign and the integer exponent and mantissa
// fields encoding c in an implicit-leading-bit format. Explicit-J-bit
// formats build their constants through the implicit twin.
func constantFields(f Format, c Constant) (negative bool, exponent, mantissa *big.Int, err error) {
	p := f.profile()
	bias := int64(f.Bias())
	e := uint(f.ExponentWidth)
	m := uint(f.MantissaWidth)
	zero, one := big.NewInt(0), big.NewInt(1)

	switch c {
	case NegativeInfinity, PositiveInfinity:
		if p.noInfinity {
			return false, nil, nil, fmt.Errorf("%w: %s", ErrInfinityUnsupported, f)
		}
		return c == NegativeInfinity, mathutil.Ones(e), zero, nil
	case NegativeZero:
		return true, zero, zero, nil
	case PositiveZero:
		return false, zero, zero, nil
	case SmallestPositiveSubnormal:
		return false, zero, one, nil
	case LargestPositiveSubnormal:
		return false, zero, mathutil.Ones(m), nil
	case SmallestPositiveNormal:
		return false, one, zero, nil
	case LargestLessThanOne:
		return false, big.NewInt(bias - 1), mathutil.Ones(m), nil
	case One:
		return false, big.NewInt(bias), zero, nil
	case SmallestLargerThanOne:
		return false, big.NewInt(bias), one, nil
	case LargestNormal:
		if p.noInfinity {
			// The top exponent code is finite here; only the all-ones
			// mantissa beside it is NaN, so the largest value sits one
			// mantissa step below that.
			return false, mathutil.Ones(e), new(big.Int).Sub(mathutil.Ones(m), one), nil
		}
		return false, new(big.Int).Sub(mathutil.Ones(e), one), mathutil.Ones(m), nil
	case NaN:
		if p.noInfinity {
			return false, mathutil.Ones(e), mathutil.Ones(m), nil
		}
		return false, mathutil.Ones(e), one, nil
	}
	return false, nil, nil, fmt.Errorf("float: unknown constant %d", int(c))
}

// Constant builds the catalog value c in this format.
func (f Format) Constant(c Constant) (Value, error) {
	return f.Populator().OfConstant(c)
}
