// Package mathutil provides the big integer helpers shared by the float
// packages.
package mathutil

import "math/big"

// Pow2 returns 2^n.
func Pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

// Ones returns the value with the n low bits set.
func Ones(n uint) *big.Int {
	return new(big.Int).Sub(Pow2(n), big.NewInt(1))
}

// NormalizeShift returns how many left shifts bring the most significant
// set bit of m to position width-1. It returns width when m is zero.
func NormalizeShift(m *big.Int, width uint) uint {
	if m.Sign() == 0 {
		return width
	}
	return width - uint(m.BitLen())
}

// SplitRound splits m into the part above the dropped low bits and the
// guard, round, and sticky state of the dropped tail: guard is the highest
// dropped bit, round the next one down, sticky the disjunction of all the
// rest.
func SplitRound(m *big.Int, dropped uint) (top *big.Int, guard, round, sticky bool) {
	top = new(big.Int).Rsh(m, dropped)
	if dropped >= 1 {
		guard = m.Bit(int(dropped)-1) == 1
	}
	if dropped >= 2 {
		round = m.Bit(int(dropped)-2) == 1
	}
	if dropped >= 3 {
		rest := new(big.Int).And(m, Ones(dropped-2))
		sticky = rest.Sign() != 0
	}
	return top, guard, round, sticky
}

// RoundNearestEven reports whether a significand truncated by SplitRound
// must be incremented under round-to-nearest with ties to even. lsb is the
// low bit of the kept part.
func RoundNearestEven(lsb, guard, round, sticky bool) bool {
	return guard && (round || sticky || lsb)
}
