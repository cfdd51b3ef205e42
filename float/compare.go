package float

import (
	"fmt"

	"fpval/logic"
)

// Eq reports semantic equality. NaN is unequal to everything including
// itself, the two zeros are equal, and explicit-J-bit encodings are
// canonicalized before their fields are compared. Values of different
// formats are never equal, and neither are values with unknown bits.
func (v Value) Eq(o Value) bool {
	if v.format != o.format || !v.IsValid() || !o.IsValid() {
		return false
	}
	if v.IsNaN() || o.IsNaN() {
		return false
	}
	if v.IsZero() && o.IsZero() {
		return true
	}
	a, b := v.Canonicalize(), o.Canonicalize()
	return a.sign.Eq(b.sign) && a.exponent.Eq(b.exponent) && a.mantissa.Eq(b.mantissa)
}

// Compare orders two values of the same format, returning -1, 0, or 1.
// The zeros compare equal regardless of sign. It fails with
// ErrInvalidComparison when either side is NaN, and with ErrWidthMismatch
// when the formats differ.
func (v Value) Compare(o Value) (int, error) {
	if v.format != o.format {
		return 0, fmt.Errorf("%w: %s against %s", ErrWidthMismatch, v.format, o.format)
	}
	if !v.IsValid() || !o.IsValid() {
		return 0, fmt.Errorf("float: %w", logic.ErrUnknownBits)
	}
	if v.IsNaN() || o.IsNaN() {
		return 0, fmt.Errorf("%w: %s vs %s", ErrInvalidComparison, v, o)
	}
	vz, oz := v.IsZero(), o.IsZero()
	switch {
	case vz && oz:
		return 0, nil
	case vz:
		if o.Signbit() {
			return 1, nil
		}
		return -1, nil
	case oz:
		if v.Signbit() {
			return -1, nil
		}
		return 1, nil
	}
	if v.Signbit() != o.Signbit() {
		if v.Signbit() {
			return -1, nil
		}
		return 1, nil
	}
	// Same sign, both nonzero: biased exponent then mantissa order the
	// magnitudes, with infinity's reserved code sorting above every
	// finite exponent. Negative values flip.
	a, b := v.Canonicalize(), o.Canonicalize()
	mag, _ := a.exponent.Cmp(b.exponent)
	if mag == 0 {
		mag, _ = a.mantissa.Cmp(b.mantissa)
	}
	if v.Signbit() {
		mag = -mag
	}
	return mag, nil
}

// Lt reports v < o under Compare's rules.
func (v Value) Lt(o Value) (bool, error) {
	c, err := v.Compare(o)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// Le reports v <= o under Compare's rules.
func (v Value) Le(o Value) (bool, error) {
	c, err := v.Compare(o)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

// Gt reports v > o under Compare's rules.
func (v Value) Gt(o Value) (bool, error) {
	c, err := v.Compare(o)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Ge reports v >= o under Compare's rules.
func (v Value) Ge(o Value) (bool, error) {
	c, err := v.Compare(o)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
