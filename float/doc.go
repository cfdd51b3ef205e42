// Package float models binary floating point encodings with configurable
// exponent and mantissa widths, down at the bit level: a Value keeps its
// sign, exponent, and mantissa as three-state logic vectors, so the same
// machinery drives both numeric work and encoding-level testing of
// hardware designs.
//
// A Format picks the layout. The IEEE interchange widths (FP64, FP32,
// FP16), the ML formats (BF16, TF32, E4M3, E5M2), and the 80-bit x87
// extended layout are predefined; any other exponent/mantissa pairing can
// be described directly. Formats differ in more than width: E4M3 spends
// its top exponent code on finite values and keeps a single NaN mantissa,
// the OCP 8-bit formats range-check construction from doubles, x87 stores
// the leading significand bit explicitly, and subnormal-as-zero variants
// flush the subnormal range. Those behaviors hang off the format, not off
// distinct types.
//
// Values are built through a single-use Populator:
//
//	v, err := float.FP16.Populator().OfDouble(1.5)
//
// Construction paths cover rounded and truncating conversion from
// float64, exact unrounded conversion, packed and per-field vectors,
// binary and radix strings, big integers, the constant catalog, and
// random draws. Conversion from double rounds to nearest even by default
// with guard, round, and sticky bits deciding the increment.
//
// Arithmetic resolves the IEEE special cases on the encodings and
// otherwise promotes to float64 and rounds the result back, which keeps
// results bit-accurate for formats well under double precision.
package float
