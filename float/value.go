package float

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"

	"fpval/internal/mathutil"
	"fpval/logic"
)

// Value is an immutable floating point encoding: sign, exponent, and
// mantissa vectors interpreted under a Format. Values are built through a
// Populator; the zero Value is not usable.
//
// The fields may carry unknown bits. Classification predicates report
// false for such values, and every numeric conversion rejects them.
type Value struct {
	format   Format
	sign     logic.Vector
	exponent logic.Vector
	mantissa logic.Vector
}

// Format returns the layout the fields are interpreted under.
func (v Value) Format() Format { return v.format }

// Sign returns the one-bit sign vector.
func (v Value) Sign() logic.Vector { return v.sign }

// Exponent returns the biased exponent vector.
func (v Value) Exponent() logic.Vector { return v.exponent }

// Mantissa returns the mantissa vector. For explicit-J-bit formats the top
// bit is the integer bit of the significand.
func (v Value) Mantissa() logic.Vector { return v.mantissa }

// Packed returns the full encoding, sign bit first.
func (v Value) Packed() logic.Vector {
	return logic.Cat(v.sign, v.exponent, v.mantissa)
}

// IsValid reports whether no field carries unknown bits.
func (v Value) IsValid() bool {
	return v.sign.IsValid() && v.exponent.IsValid() && v.mantissa.IsValid()
}

// Signbit reports whether the sign bit is set.
func (v Value) Signbit() bool {
	return v.sign.Width() == 1 && v.sign.Bit(0) == logic.One
}

// fraction returns the stored bits below the leading significand bit: the
// whole mantissa for implicit formats, everything under the J bit for
// explicit ones.
func (v Value) fraction() logic.Vector {
	if v.format.ExplicitJBit {
		return v.mantissa.Slice(v.format.MantissaWidth-2, 0)
	}
	return v.mantissa
}

// IsNaN reports whether the value encodes not-a-number: the top exponent
// code with a nonzero fraction, or with the all-ones mantissa in formats
// whose top code is otherwise finite.
func (v Value) IsNaN() bool {
	if !v.IsValid() || !v.exponent.AllOnes() {
		return false
	}
	if v.format.profile().noInfinity {
		return v.mantissa.AllOnes()
	}
	return !v.fraction().IsZero()
}

// IsInf reports whether the value encodes an infinity of either sign.
func (v Value) IsInf() bool {
	if !v.IsValid() || v.format.profile().noInfinity {
		return false
	}
	return v.exponent.AllOnes() && v.fraction().IsZero()
}

// IsZero reports whether the value is a zero of either sign. Subnormal
// encodings of a subnormal-as-zero format count as zero.
func (v Value) IsZero() bool {
	if !v.IsValid() || !v.exponent.IsZero() {
		return false
	}
	if v.format.SubnormalAsZero {
		if v.format.ExplicitJBit {
			return v.mantissa.Bit(v.format.MantissaWidth-1) == logic.Zero
		}
		return true
	}
	return v.mantissa.IsZero()
}

// IsSubnormal reports whether the value is a nonzero subnormal: zero
// exponent, nonzero fraction, and for explicit-J-bit formats a clear
// integer bit.
func (v Value) IsSubnormal() bool {
	if !v.IsValid() || v.format.SubnormalAsZero {
		return false
	}
	if !v.exponent.IsZero() || v.fraction().IsZero() {
		return false
	}
	if v.format.ExplicitJBit {
		return v.mantissa.Bit(v.format.MantissaWidth-1) == logic.Zero
	}
	return true
}

// IsNormal reports whether the value is finite, nonzero, and not
// subnormal. Non-canonical explicit-J-bit encodings count as normal until
// canonicalized.
func (v Value) IsNormal() bool {
	return v.IsValid() && !v.IsNaN() && !v.IsInf() && !v.IsZero() && !v.IsSubnormal()
}

// significand returns the integer significand and the power of two scaling
// it, so that the magnitude is sig * 2^exp. The value must be valid and
// finite; non-canonical explicit-J-bit encodings work because their stored
// mantissa already is the full significand.
func (v Value) significand() (sig *big.Int, exp int) {
	f := v.format
	m, _ := v.mantissa.BigInt()
	fw := f.FractionWidth()
	if v.exponent.IsZero() {
		return m, f.MinExponent() - fw
	}
	e, _ := v.exponent.BigInt()
	if !f.ExplicitJBit {
		m = new(big.Int).Add(mathutil.Pow2(uint(fw)), m)
	}
	return m, int(e.Int64()) - f.Bias() - fw
}

// ToDouble converts the value to a float64, rounding to nearest even when
// the double cannot hold it exactly. Subnormals of a subnormal-as-zero
// format convert to a signed zero. It fails if any field carries unknown
// bits.
func (v Value) ToDouble() (float64, error) {
	if !v.IsValid() {
		return 0, fmt.Errorf("float: cannot convert %s: %w", v, logic.ErrUnknownBits)
	}
	sign := 1
	if v.Signbit() {
		sign = -1
	}
	switch {
	case v.IsNaN():
		return math.NaN(), nil
	case v.IsInf():
		return math.Inf(sign), nil
	case v.IsZero():
		return math.Copysign(0, float64(sign)), nil
	}
	sig, exp := v.significand()
	if sig.Sign() == 0 {
		return math.Copysign(0, float64(sign)), nil
	}
	bf := new(big.Float).SetInt(sig)
	bf.SetMantExp(bf, exp)
	d, _ := bf.Float64()
	return math.Copysign(d, float64(sign)), nil
}

// String renders the three fields as binary strings, space separated, sign
// first. Unknown bits render as x.
func (v Value) String() string {
	return v.sign.String() + " " + v.exponent.String() + " " + v.mantissa.String()
}

// BitString returns the packed encoding as a single binary string.
func (v Value) BitString() string { return v.Packed().String() }

// TupleString renders the fields as decimal integers, for debugging.
// Values with unknown bits fall back to the binary form.
func (v Value) TupleString() string {
	e, err1 := v.exponent.BigInt()
	m, err2 := v.mantissa.BigInt()
	if err1 != nil || err2 != nil {
		return v.String()
	}
	s := 0
	if v.Signbit() {
		s = 1
	}
	return fmt.Sprintf("(%d, %s, %s)", s, e, m)
}

type valueJSON struct {
	Format Format `json:"format"`
	Bits   string `json:"bits"`
}

// MarshalJSON encodes the format and the spaced binary fields.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Format: v.format, Bits: v.String()})
}

// UnmarshalJSON rebuilds the value through a fresh populator.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := raw.Format.Populator().OfSpacedBinaryString(raw.Bits)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
