package float

import (
	"fpval/internal/mathutil"
	"fpval/logic"
)

// Explicit-J-bit support. Formats in the x87 lineage store the leading
// significand bit instead of implying it, which makes several encodings of
// the same magnitude possible. Computed construction paths run through the
// implicit twin format and re-insert the J bit here; the field-level paths
// accept any encoding, and Canonicalize rewrites stragglers.

// expandJ widens an implicit-format value by one mantissa bit, storing the
// implied leading bit explicitly: one above a nonzero exponent, zero in
// the subnormal range.
func expandJ(inner Value) (sign, exponent, mantissa logic.Vector) {
	j := logic.FromBool(!inner.exponent.IsZero())
	return inner.sign, inner.exponent, logic.Cat(j, inner.mantissa)
}

// Canonicalize rewrites an explicit-J-bit encoding into its canonical
// form: the leading one bit shifted as high as the exponent allows, the
// zero exponent code kept for true subnormals only, and zero always
// encoded with an all-zero mantissa and exponent. Values of implicit
// formats, NaN and infinity encodings, and values with unknown bits come
// back unchanged. Canonicalization is idempotent.
func (v Value) Canonicalize() Value {
	f := v.format
	if !f.ExplicitJBit || !v.IsValid() || v.exponent.AllOnes() {
		return v
	}
	m, _ := v.mantissa.BigInt()
	if m.Sign() == 0 {
		return Value{
			format:   f,
			sign:     v.sign,
			exponent: logic.Zeros(f.ExponentWidth),
			mantissa: logic.Zeros(f.MantissaWidth),
		}
	}
	e64, _ := v.exponent.Uint64()
	eff := int(e64)
	if eff == 0 {
		// The zero and one exponent codes share the minimum scale, so a
		// pseudo-denormal (zero exponent, set integer bit) renormalizes to
		// exponent one.
		eff = 1
	}
	shift := int(mathutil.NormalizeShift(m, uint(f.MantissaWidth)))
	if shift > eff-1 {
		shift = eff - 1
		eff = 0
	} else {
		eff -= shift
	}
	m.Lsh(m, uint(shift))
	return Value{
		format:   f,
		sign:     v.sign,
		exponent: logic.FromUint(uint64(eff), f.ExponentWidth),
		mantissa: logic.FromBig(m, f.MantissaWidth),
	}
}

// IsCanonical reports whether an explicit-J-bit encoding already is in
// canonical form. Implicit-format values are always canonical.
func (v Value) IsCanonical() bool {
	if !v.format.ExplicitJBit {
		return true
	}
	if !v.IsValid() {
		return false
	}
	c := v.Canonicalize()
	return v.exponent.Eq(c.exponent) && v.mantissa.Eq(c.mantissa)
}
