package float

import (
	"fmt"
	"math/big"
	"math/bits"
	"math/rand"
	"strings"

	"fpval/logic"
)

// Populator builds one Value for one format. A populator is single use:
// after a successful construction every further attempt fails with
// ErrAlreadyPopulated, so a stale handle cannot silently rebuild a value
// that other code already holds.
//
// Construction is atomic: either every field fits the format and a Value
// comes back, or an error does and the populator stays usable.
type Populator struct {
	format Format
	done   bool
}

// Populator returns a fresh single-use builder for the format.
func (f Format) Populator() *Populator {
	return &Populator{format: f}
}

// Format returns the layout this populator builds.
func (p *Populator) Format() Format { return p.format }

func (p *Populator) pre() error {
	if p.done {
		return fmt.Errorf("%w: %s", ErrAlreadyPopulated, p.format)
	}
	return p.format.Validate()
}

// populate is the single gate every construction path funnels through. It
// validates the widths, marks the populator used, and freezes the fields
// into a Value.
func (p *Populator) populate(sign, exponent, mantissa logic.Vector) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if sign.Width() != 1 {
		return Value{}, fmt.Errorf("%w: sign is %d bits, want 1", ErrWidthMismatch, sign.Width())
	}
	if exponent.Width() != f.ExponentWidth {
		return Value{}, fmt.Errorf("%w: exponent is %d bits, %s wants %d",
			ErrWidthMismatch, exponent.Width(), f, f.ExponentWidth)
	}
	if mantissa.Width() != f.MantissaWidth {
		return Value{}, fmt.Errorf("%w: mantissa is %d bits, %s wants %d",
			ErrWidthMismatch, mantissa.Width(), f, f.MantissaWidth)
	}
	p.done = true
	return Value{format: f, sign: sign, exponent: exponent, mantissa: mantissa}, nil
}

// adoptExplicit rebuilds a value computed in the implicit twin format as
// the explicit-J-bit value of p's format.
func (p *Populator) adoptExplicit(inner Value) (Value, error) {
	sign, exponent, mantissa := expandJ(inner)
	return p.populate(sign, exponent, mantissa)
}

// Populate builds the value directly from its three field vectors. The
// vectors may carry unknown bits.
func (p *Populator) Populate(sign, exponent, mantissa logic.Vector) (Value, error) {
	return p.populate(sign, exponent, mantissa)
}

// OfFields builds the value from integer fields. The exponent is biased;
// explicit-J-bit formats take the full mantissa including the integer bit.
func (p *Populator) OfFields(negative bool, exponent, mantissa uint64) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if n := bits.Len64(exponent); n > f.ExponentWidth {
		return Value{}, fmt.Errorf("%w: exponent %d needs %d bits, %s has %d",
			ErrWidthMismatch, exponent, n, f, f.ExponentWidth)
	}
	if n := bits.Len64(mantissa); n > f.MantissaWidth {
		return Value{}, fmt.Errorf("%w: mantissa %d needs %d bits, %s has %d",
			ErrWidthMismatch, mantissa, n, f, f.MantissaWidth)
	}
	return p.populate(
		logic.FromBool(negative),
		logic.FromUint(exponent, f.ExponentWidth),
		logic.FromUint(mantissa, f.MantissaWidth),
	)
}

// OfBigInts builds the value from big integer fields. The exponent is
// biased; both fields must be non-negative and fit their widths.
func (p *Populator) OfBigInts(negative bool, exponent, mantissa *big.Int) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if exponent.Sign() < 0 || mantissa.Sign() < 0 {
		return Value{}, fmt.Errorf("%w: fields must be non-negative, got exponent %s mantissa %s",
			ErrRangeExceeded, exponent, mantissa)
	}
	if n := exponent.BitLen(); n > f.ExponentWidth {
		return Value{}, fmt.Errorf("%w: exponent %s needs %d bits, %s has %d",
			ErrWidthMismatch, exponent, n, f, f.ExponentWidth)
	}
	if n := mantissa.BitLen(); n > f.MantissaWidth {
		return Value{}, fmt.Errorf("%w: mantissa %s needs %d bits, %s has %d",
			ErrWidthMismatch, mantissa, n, f, f.MantissaWidth)
	}
	return p.populate(
		logic.FromBool(negative),
		logic.FromBig(exponent, f.ExponentWidth),
		logic.FromBig(mantissa, f.MantissaWidth),
	)
}

// OfBinaryStrings parses the three fields from binary strings, most
// significant bit first. Unknown digits (x) are preserved, so partially
// driven encodings are constructible.
func (p *Populator) OfBinaryStrings(sign, exponent, mantissa string) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	s, err := logic.Parse(sign)
	if err != nil {
		return Value{}, err
	}
	e, err := logic.Parse(exponent)
	if err != nil {
		return Value{}, err
	}
	m, err := logic.Parse(mantissa)
	if err != nil {
		return Value{}, err
	}
	return p.populate(s, e, m)
}

// OfSpacedBinaryString parses "s eeee mmmm", the String form of a value.
func (p *Populator) OfSpacedBinaryString(str string) (Value, error) {
	parts := strings.Fields(str)
	if len(parts) != 3 {
		return Value{}, fmt.Errorf("float: want three space separated fields, got %q", str)
	}
	return p.OfBinaryStrings(parts[0], parts[1], parts[2])
}

// OfString parses the packed encoding from an integer string in the given
// base (anything big.Int accepts, typically 2, 10, or 16).
func (p *Populator) OfString(str string, base int) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	x, ok := new(big.Int).SetString(str, base)
	if !ok {
		return Value{}, fmt.Errorf("float: cannot parse %q in base %d", str, base)
	}
	if x.Sign() < 0 {
		return Value{}, fmt.Errorf("float: packed encoding cannot be negative: %q", str)
	}
	f := p.format
	if n := x.BitLen(); n > f.TotalWidth() {
		return Value{}, fmt.Errorf("%w: %q needs %d bits, %s packs into %d",
			ErrWidthMismatch, str, n, f, f.TotalWidth())
	}
	return p.OfPacked(logic.FromBig(x, f.TotalWidth()))
}

// OfPacked splits a packed encoding, sign bit first, into its fields.
func (p *Populator) OfPacked(v logic.Vector) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if v.Width() != f.TotalWidth() {
		return Value{}, fmt.Errorf("%w: packed vector is %d bits, %s needs %d",
			ErrWidthMismatch, v.Width(), f, f.TotalWidth())
	}
	w := f.TotalWidth()
	return p.populate(
		v.Slice(w-1, w-1),
		v.Slice(w-2, f.MantissaWidth),
		v.Slice(f.MantissaWidth-1, 0),
	)
}

// OfConstant builds the catalog value c.
func (p *Populator) OfConstant(c Constant) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if f.ExplicitJBit {
		inner, err := f.implicitTwin().Populator().OfConstant(c)
		if err != nil {
			return Value{}, err
		}
		return p.adoptExplicit(inner)
	}
	negative, e, m, err := constantFields(f, c)
	if err != nil {
		return Value{}, err
	}
	return p.populate(
		logic.FromBool(negative),
		logic.FromBig(e, f.ExponentWidth),
		logic.FromBig(m, f.MantissaWidth),
	)
}

// Random draws a uniformly random encoding that is neither NaN nor an
// infinity. Subnormal-as-zero formats pair a zero exponent with a zero
// mantissa so the draw stays canonical.
func (p *Populator) Random(rng *rand.Rand) (Value, error) {
	return p.random(rng, false)
}

// RandomNormal draws a random normal-range encoding: like Random but with
// a nonzero exponent field.
func (p *Populator) RandomNormal(rng *rand.Rand) (Value, error) {
	return p.random(rng, true)
}

func (p *Populator) random(rng *rand.Rand, normalOnly bool) (Value, error) {
	if err := p.pre(); err != nil {
		return Value{}, err
	}
	f := p.format
	if f.ExplicitJBit {
		inner, err := f.implicitTwin().Populator().random(rng, normalOnly)
		if err != nil {
			return Value{}, err
		}
		return p.adoptExplicit(inner)
	}
	prof := f.profile()
	lo := 0
	if normalOnly {
		lo = 1
	}
	span := 1<<uint(f.ExponentWidth) - 1 - lo
	if prof.noInfinity {
		// The top code is finite here, so it stays in the pool.
		span++
	}
	e := uint64(lo + rng.Intn(span))
	mantissa := logic.Rand(rng, f.MantissaWidth)
	if f.SubnormalAsZero && e == 0 {
		mantissa = logic.Zeros(f.MantissaWidth)
	}
	if prof.noInfinity && e == uint64(1<<uint(f.ExponentWidth)-1) && mantissa.AllOnes() {
		// One step back from the NaN encoding.
		mantissa = mantissa.SetBit(0, logic.Zero)
	}
	return p.populate(
		logic.FromBool(rng.Intn(2) == 1),
		logic.FromUint(e, f.ExponentWidth),
		mantissa,
	)
}
