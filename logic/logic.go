// Package logic models fixed-width binary vectors in which every position
// holds one of three states: zero, one, or unknown. Unknown bits (written x)
// survive slicing, concatenation, and the bitwise operators the way they do
// in hardware simulation: an operator output is unknown unless the known
// inputs force it. Numeric conversions refuse vectors that still carry
// unknown bits.
//
// Vectors are immutable. Every operation returns a fresh Vector, so values
// can be shared freely across goroutines.
package logic

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
)

// ErrUnknownBits is returned by numeric conversions of vectors that carry at
// least one unknown bit.
var ErrUnknownBits = errors.New("logic: vector has unknown bits")

// Bit is the state of a single vector position.
type Bit byte

const (
	Zero Bit = iota
	One
	X // unknown
)

// String returns "0", "1" or "x".
func (b Bit) String() string {
	switch b {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "x"
	}
}

// Vector is a fixed-width vector of three-state bits. Position 0 is the
// least significant bit.
type Vector struct {
	width int
	vals  *bitset.BitSet // value bits; zero wherever unk is set
	unk   *bitset.BitSet // positions in the unknown state
}

func newVector(width int) Vector {
	if width < 1 {
		panic("logic: vector width must be positive")
	}
	return Vector{
		width: width,
		vals:  bitset.New(uint(width)),
		unk:   bitset.New(uint(width)),
	}
}

// Zeros returns a vector of width zero bits.
func Zeros(width int) Vector { return newVector(width) }

// Ones returns a vector of width one bits.
func Ones(width int) Vector {
	v := newVector(width)
	for i := 0; i < width; i++ {
		v.vals.Set(uint(i))
	}
	return v
}

// Unknown returns a vector with every position in the unknown state.
func Unknown(width int) Vector {
	v := newVector(width)
	for i := 0; i < width; i++ {
		v.unk.Set(uint(i))
	}
	return v
}

// Filled returns a vector with every position set to b.
func Filled(width int, b Bit) Vector {
	switch b {
	case One:
		return Ones(width)
	case X:
		return Unknown(width)
	default:
		return Zeros(width)
	}
}

// FromBool returns the single-bit vector 1 for true and 0 for false.
func FromBool(b bool) Vector {
	v := newVector(1)
	if b {
		v.vals.Set(0)
	}
	return v
}

// FromUint returns an unsigned integer as a width-bit vector. Bits at or
// above width are discarded.
func FromUint[T constraints.Unsigned](x T, width int) Vector {
	v := newVector(width)
	u := uint64(x)
	for i := 0; i < width && i < 64; i++ {
		if u&(1<<uint(i)) != 0 {
			v.vals.Set(uint(i))
		}
	}
	return v
}

// FromBig returns the width low bits of x as a vector. x must not be
// negative.
func FromBig(x *big.Int, width int) Vector {
	if x.Sign() < 0 {
		panic("logic: FromBig requires a non-negative value")
	}
	v := newVector(width)
	for i := 0; i < width; i++ {
		if x.Bit(i) == 1 {
			v.vals.Set(uint(i))
		}
	}
	return v
}

// Parse builds a vector from a binary string, most significant bit first.
// Valid characters are 0, 1 and x (or X) for unknown; underscores are
// ignored, as is a leading 0b or 0B. The width is the number of bit
// characters.
func Parse(s string) (Vector, error) {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) > 2 && (strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B")) {
		s = s[2:]
	}
	if s == "" {
		return Vector{}, errors.New("logic: empty bit string")
	}
	v := newVector(len(s))
	for i, c := range s {
		pos := uint(len(s) - 1 - i)
		switch c {
		case '0':
		case '1':
			v.vals.Set(pos)
		case 'x', 'X':
			v.unk.Set(pos)
		default:
			return Vector{}, fmt.Errorf("logic: invalid character %q in bit string", c)
		}
	}
	return v, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Rand returns a vector of width random valid bits drawn from rng.
func Rand(rng *rand.Rand, width int) Vector {
	v := newVector(width)
	var word uint64
	for i := 0; i < width; i++ {
		if i%64 == 0 {
			word = rng.Uint64()
		}
		if word&(1<<uint(i%64)) != 0 {
			v.vals.Set(uint(i))
		}
	}
	return v
}

// Width returns the number of bit positions.
func (v Vector) Width() int { return v.width }

// Bit returns the state of position i, where position 0 is the least
// significant bit. It panics if i is out of range.
func (v Vector) Bit(i int) Bit {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("logic: bit index %d out of range [0, %d)", i, v.width))
	}
	switch {
	case v.unk.Test(uint(i)):
		return X
	case v.vals.Test(uint(i)):
		return One
	default:
		return Zero
	}
}

// IsValid reports whether no position is unknown.
func (v Vector) IsValid() bool { return v.unk == nil || v.unk.None() }

// IsZero reports whether the vector is valid and every bit is zero.
func (v Vector) IsZero() bool {
	return v.IsValid() && (v.vals == nil || v.vals.None())
}

// AllOnes reports whether the vector is valid and every bit is one.
func (v Vector) AllOnes() bool {
	return v.width > 0 && v.IsValid() && v.vals.Count() == uint(v.width)
}

// Uint64 returns the vector as an unsigned integer. It fails if any bit is
// unknown or a set bit lies above position 63.
func (v Vector) Uint64() (uint64, error) {
	if !v.IsValid() {
		return 0, ErrUnknownBits
	}
	var u uint64
	for i := 0; i < v.width; i++ {
		if v.vals.Test(uint(i)) {
			if i >= 64 {
				return 0, fmt.Errorf("logic: %d-bit value does not fit in uint64", v.width)
			}
			u |= 1 << uint(i)
		}
	}
	return u, nil
}

// BigInt returns the vector as an unsigned big integer. It fails if any bit
// is unknown.
func (v Vector) BigInt() (*big.Int, error) {
	if !v.IsValid() {
		return nil, ErrUnknownBits
	}
	x := new(big.Int)
	for i := 0; i < v.width; i++ {
		if v.vals.Test(uint(i)) {
			x.SetBit(x, i, 1)
		}
	}
	return x, nil
}

// Slice returns bits hi down to lo, inclusive, as a new vector. It panics
// if the range does not lie inside the vector.
func (v Vector) Slice(hi, lo int) Vector {
	if lo < 0 || hi < lo || hi >= v.width {
		panic(fmt.Sprintf("logic: slice [%d:%d] out of range for width %d", hi, lo, v.width))
	}
	out := newVector(hi - lo + 1)
	for i := lo; i <= hi; i++ {
		switch v.Bit(i) {
		case One:
			out.vals.Set(uint(i - lo))
		case X:
			out.unk.Set(uint(i - lo))
		}
	}
	return out
}

// Cat concatenates vectors, first argument most significant.
func Cat(vs ...Vector) Vector {
	width := 0
	for _, v := range vs {
		width += v.width
	}
	out := newVector(width)
	pos := 0
	for i := len(vs) - 1; i >= 0; i-- {
		v := vs[i]
		for j := 0; j < v.width; j++ {
			switch v.Bit(j) {
			case One:
				out.vals.Set(uint(pos + j))
			case X:
				out.unk.Set(uint(pos + j))
			}
		}
		pos += v.width
	}
	return out
}

// SetBit returns a copy of the vector with position i set to b. It panics
// if i is out of range.
func (v Vector) SetBit(i int, b Bit) Vector {
	if i < 0 || i >= v.width {
		panic(fmt.Sprintf("logic: bit index %d out of range [0, %d)", i, v.width))
	}
	out := Vector{width: v.width, vals: v.vals.Clone(), unk: v.unk.Clone()}
	out.vals.SetTo(uint(i), b == One)
	out.unk.SetTo(uint(i), b == X)
	return out
}

// Shl returns the vector shifted left by n, dropping high bits and filling
// with zeros. Unknown bits shift along.
func (v Vector) Shl(n int) Vector {
	if n < 0 {
		panic("logic: negative shift")
	}
	out := newVector(v.width)
	for i := n; i < v.width; i++ {
		switch v.Bit(i - n) {
		case One:
			out.vals.Set(uint(i))
		case X:
			out.unk.Set(uint(i))
		}
	}
	return out
}

// Shr returns the vector shifted right by n, dropping low bits and filling
// with zeros. Unknown bits shift along.
func (v Vector) Shr(n int) Vector {
	if n < 0 {
		panic("logic: negative shift")
	}
	out := newVector(v.width)
	for i := 0; i+n < v.width; i++ {
		switch v.Bit(i + n) {
		case One:
			out.vals.Set(uint(i))
		case X:
			out.unk.Set(uint(i))
		}
	}
	return out
}

// Not returns the bitwise complement. Unknown bits stay unknown.
func (v Vector) Not() Vector {
	out := newVector(v.width)
	for i := 0; i < v.width; i++ {
		switch v.Bit(i) {
		case Zero:
			out.vals.Set(uint(i))
		case X:
			out.unk.Set(uint(i))
		}
	}
	return out
}

// And returns the bitwise conjunction. A zero on either side forces zero;
// otherwise an unknown input makes the output unknown. The widths must
// match.
func (v Vector) And(o Vector) Vector {
	v.checkWidth(o, "And")
	out := newVector(v.width)
	for i := 0; i < v.width; i++ {
		a, b := v.Bit(i), o.Bit(i)
		switch {
		case a == Zero || b == Zero:
		case a == One && b == One:
			out.vals.Set(uint(i))
		default:
			out.unk.Set(uint(i))
		}
	}
	return out
}

// Or returns the bitwise disjunction. A one on either side forces one;
// otherwise an unknown input makes the output unknown. The widths must
// match.
func (v Vector) Or(o Vector) Vector {
	v.checkWidth(o, "Or")
	out := newVector(v.width)
	for i := 0; i < v.width; i++ {
		a, b := v.Bit(i), o.Bit(i)
		switch {
		case a == One || b == One:
			out.vals.Set(uint(i))
		case a == Zero && b == Zero:
		default:
			out.unk.Set(uint(i))
		}
	}
	return out
}

// Xor returns the bitwise exclusive or. Any unknown input makes the output
// unknown. The widths must match.
func (v Vector) Xor(o Vector) Vector {
	v.checkWidth(o, "Xor")
	out := newVector(v.width)
	for i := 0; i < v.width; i++ {
		a, b := v.Bit(i), o.Bit(i)
		switch {
		case a == X || b == X:
			out.unk.Set(uint(i))
		case a != b:
			out.vals.Set(uint(i))
		}
	}
	return out
}

func (v Vector) checkWidth(o Vector, op string) {
	if v.width != o.width {
		panic(fmt.Sprintf("logic: %s width mismatch: %d vs %d", op, v.width, o.width))
	}
}

// Cmp compares two vectors as unsigned magnitudes, returning -1, 0 or 1.
// The widths need not match. It fails if either side has unknown bits.
func (v Vector) Cmp(o Vector) (int, error) {
	a, err := v.BigInt()
	if err != nil {
		return 0, err
	}
	b, err := o.BigInt()
	if err != nil {
		return 0, err
	}
	return a.Cmp(b), nil
}

// Eq reports structural equality: same width and the same state at every
// position. Unknown compares equal to unknown.
func (v Vector) Eq(o Vector) bool {
	if v.width != o.width {
		return false
	}
	if v.width == 0 {
		return true
	}
	return v.vals.Equal(o.vals) && v.unk.Equal(o.unk)
}

// String renders the vector most significant bit first, using x for unknown
// positions.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.width)
	for i := v.width - 1; i >= 0; i-- {
		sb.WriteString(v.Bit(i).String())
	}
	return sb.String()
}
