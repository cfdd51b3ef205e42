package float

import (
	"fmt"
	"math"

	"fpval/logic"
)

// Arithmetic resolves the IEEE special cases on the encodings first, then
// promotes both operands to float64, applies the operation, and rounds the
// result back to nearest even. Formats without infinities keep their
// saturation and error behavior through the construction path. A format
// whose precision approaches float64's rounds twice on this path, so a
// result can differ from a fused computation in the last bit; for the
// 64-bit explicit-J significand that already shows at 1 + 2^-63.

func constantValue(f Format, c Constant) (Value, error) {
	return f.Populator().OfConstant(c)
}

func (v Value) nan() (Value, error) {
	return constantValue(v.format, NaN)
}

func (v Value) inf(neg bool) (Value, error) {
	if neg {
		return constantValue(v.format, NegativeInfinity)
	}
	return constantValue(v.format, PositiveInfinity)
}

func (v Value) checkBinary(o Value) error {
	if v.format != o.format {
		return fmt.Errorf("%w: %s against %s", ErrWidthMismatch, v.format, o.format)
	}
	if !v.IsValid() || !o.IsValid() {
		return fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	return nil
}

func (v Value) promote1(op func(float64) float64) (Value, error) {
	d, err := v.ToDouble()
	if err != nil {
		return Value{}, err
	}
	return v.format.Populator().OfDouble(op(d))
}

func (v Value) promote2(o Value, op func(a, b float64) float64) (Value, error) {
	a, err := v.ToDouble()
	if err != nil {
		return Value{}, err
	}
	b, err := o.ToDouble()
	if err != nil {
		return Value{}, err
	}
	return v.format.Populator().OfDouble(op(a, b))
}

// Add returns v + o rounded to nearest even. Opposite infinities yield
// NaN; a single infinite operand wins.
func (v Value) Add(o Value) (Value, error) {
	if err := v.checkBinary(o); err != nil {
		return Value{}, err
	}
	switch {
	case v.IsNaN() || o.IsNaN():
		return v.nan()
	case v.IsInf() && o.IsInf():
		if v.Signbit() != o.Signbit() {
			return v.nan()
		}
		return v, nil
	case v.IsInf():
		return v, nil
	case o.IsInf():
		return o, nil
	}
	return v.promote2(o, func(a, b float64) float64 { return a + b })
}

// Sub returns v - o, computed as v + (-o).
func (v Value) Sub(o Value) (Value, error) {
	return v.Add(o.Neg())
}

// Mul returns v * o rounded to nearest even. Infinity times zero yields
// NaN; any other infinite operand yields an infinity signed by the
// exclusive or of the operand signs.
func (v Value) Mul(o Value) (Value, error) {
	if err := v.checkBinary(o); err != nil {
		return Value{}, err
	}
	xorSign := v.Signbit() != o.Signbit()
	switch {
	case v.IsNaN() || o.IsNaN():
		return v.nan()
	case v.IsInf() && o.IsInf():
		return v.inf(xorSign)
	case v.IsInf():
		if o.IsZero() {
			return v.nan()
		}
		return v.inf(xorSign)
	case o.IsInf():
		if v.IsZero() {
			return v.nan()
		}
		return v.inf(xorSign)
	}
	return v.promote2(o, func(a, b float64) float64 { return a * b })
}

// Div returns v / o rounded to nearest even. Infinity over infinity
// yields NaN; an infinite dividend passes through with its own sign
// whatever the divisor; division by zero, including 0/0, yields an
// infinity signed by the exclusive or of the operand signs. In a format
// without infinities those paths fail with ErrInfinityUnsupported.
func (v Value) Div(o Value) (Value, error) {
	if err := v.checkBinary(o); err != nil {
		return Value{}, err
	}
	switch {
	case v.IsNaN() || o.IsNaN():
		return v.nan()
	case v.IsInf() && o.IsInf():
		return v.nan()
	case v.IsInf():
		return v, nil
	case o.IsZero():
		return v.inf(v.Signbit() != o.Signbit())
	}
	return v.promote2(o, func(a, b float64) float64 { return a / b })
}

// Neg returns the value with its sign bit flipped. An unknown sign bit
// stays unknown; a NaN keeps its payload.
func (v Value) Neg() Value {
	out := v
	out.sign = v.sign.Not()
	return out
}

// Abs returns the value with its sign bit cleared.
func (v Value) Abs() Value {
	out := v
	out.sign = logic.FromBool(false)
	return out
}

// Sqrt returns the square root rounded to nearest even. The root of any
// negative value is NaN, except negative zero whose root is negative zero.
func (v Value) Sqrt() (Value, error) {
	if !v.IsValid() {
		return Value{}, fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	switch {
	case v.IsNaN():
		return v.nan()
	case v.IsZero():
		return v, nil
	case v.Signbit():
		return v.nan()
	case v.IsInf():
		return v, nil
	}
	return v.promote1(math.Sqrt)
}

// Trunc returns the value rounded toward zero to an integer.
func (v Value) Trunc() (Value, error) { return v.integer(math.Trunc) }

// Floor returns the value rounded toward negative infinity to an integer.
func (v Value) Floor() (Value, error) { return v.integer(math.Floor) }

// Ceil returns the value rounded toward positive infinity to an integer.
func (v Value) Ceil() (Value, error) { return v.integer(math.Ceil) }

func (v Value) integer(op func(float64) float64) (Value, error) {
	if !v.IsValid() {
		return Value{}, fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	switch {
	case v.IsNaN():
		return v.nan()
	case v.IsInf():
		return v, nil
	}
	return v.promote1(op)
}

// Int64 returns the value truncated toward zero. NaN, the infinities, and
// magnitudes beyond int64 fail with ErrRangeExceeded.
func (v Value) Int64() (int64, error) {
	if !v.IsValid() {
		return 0, fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	d, err := v.ToDouble()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: %s has no integer value", ErrRangeExceeded, v)
	}
	t := math.Trunc(d)
	if t >= 1<<63 || t < -(1<<63) {
		return 0, fmt.Errorf("%w: %s does not fit in int64", ErrRangeExceeded, v)
	}
	return int64(t), nil
}

// Ulp returns the distance to the next representable magnitude. For
// biased exponents above the fraction width this is the normal value
// 2^(e-bias-fraction); everything at or below that threshold collapses to
// the smallest positive subnormal, which undershoots for the lowest
// normal binades. NaN propagates and the ulp of an infinity is infinity.
// TODO: return the exact spacing in the collapsed region, where the true
// ulp is a mid-range subnormal.
func (v Value) Ulp() (Value, error) {
	if !v.IsValid() {
		return Value{}, fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	switch {
	case v.IsNaN():
		return v.nan()
	case v.IsInf():
		return v.Abs(), nil
	}
	f := v.format
	c := v.Canonicalize()
	e, err := c.exponent.Uint64()
	if err != nil {
		return Value{}, err
	}
	fw := uint64(f.FractionWidth())
	if e > fw {
		var mant uint64
		if f.ExplicitJBit {
			mant = 1 << uint(f.MantissaWidth-1)
		}
		return f.Populator().OfFields(false, e-fw, mant)
	}
	return constantValue(f, SmallestPositiveSubnormal)
}
