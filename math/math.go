// Package math evaluates polynomial approximations of transcendental
// functions in any floating point format, rounding every intermediate
// result the way the format would. Formats with construction range
// checks propagate those errors when an intermediate step leaves the
// representable range.
package math

import (
	"fmt"
	"math"

	"fpval/float"
	"fpval/logic"
)

// Polynomial is a list of same-format coefficients, leading coefficient
// first, constant term last.
type Polynomial []float.Value

// NewPolynomial converts double coefficients into f. Magnitudes beyond
// the format's range clamp to its largest finite value and magnitudes
// below its subnormal range flush to zero, so any finite coefficient
// list converts.
func NewPolynomial(f float.Format, coeffs []float64) (Polynomial, error) {
	p := make(Polynomial, len(coeffs))
	for i, c := range coeffs {
		if math.IsNaN(c) {
			return nil, fmt.Errorf("math: coefficient %d is NaN", i)
		}
		v, err := f.Populator().OfDouble(c, float.WithFiniteClamp())
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	return p, nil
}

// Eval evaluates the polynomial at a point with Horner's method,
// rounding after every multiply and add. The point must share the
// coefficients' format.
func (p Polynomial) Eval(at float.Value) (float.Value, error) {
	result, err := at.Format().Constant(float.PositiveZero)
	if err != nil {
		return float.Value{}, err
	}
	for _, coeff := range p {
		if result, err = result.Mul(at); err != nil {
			return float.Value{}, err
		}
		if result, err = result.Add(coeff); err != nil {
			return float.Value{}, err
		}
	}
	return result, nil
}

// EvalK evaluates the polynomial with a k-fold Horner split, carrying k
// accumulators and summing them at the end. k = 1 is plain Horner and
// the most accurate; larger k trades accuracy for the split shape.
func (p Polynomial) EvalK(at float.Value, k int) (float.Value, error) {
	if k < 1 {
		return float.Value{}, fmt.Errorf("math: split factor %d, need at least 1", k)
	}
	f := at.Format()
	zero, err := f.Constant(float.PositiveZero)
	if err != nil {
		return float.Value{}, err
	}
	parts := make([]float.Value, k)
	for i := range parts {
		parts[i] = zero
	}
	for _, coeff := range p {
		for j := range parts {
			t, err := parts[j].Mul(at)
			if err != nil {
				return float.Value{}, err
			}
			if j == 0 {
				parts[0], err = t.Add(coeff)
			} else {
				var carry float.Value
				if carry, err = parts[j-1].Mul(at); err != nil {
					return float.Value{}, err
				}
				parts[j], err = t.Add(carry)
			}
			if err != nil {
				return float.Value{}, err
			}
		}
	}
	result := parts[0]
	for i := 1; i < k; i++ {
		if result, err = result.Add(parts[i]); err != nil {
			return float.Value{}, err
		}
	}
	return result, nil
}

// atanCoeffs64 approximates atan on [0, 1] with a degree 24 polynomial
// fitted by the Remez algorithm; atanCoeffs32 is the degree 10 fit.
// Precisions above single precision get the long table.
var atanCoeffs64 = []float64{
	-0.000942885517390737,
	0.012831303689781028,
	-0.08114401696242823,
	0.31521931513648976,
	-0.8366759947462465,
	1.5941310579396186,
	-2.225620203806413,
	2.283041197386529,
	-1.716279012920493,
	0.9814600474792705,
	-0.5135300638813421,
	0.28006786416868995,
	-0.0649531804791716,
	-0.07417760886128402,
	-0.0034470515096669467,
	0.11167263969100766,
	-7.11657573061619e-05,
	-0.14285027929722588,
	-4.888898128412832e-07,
	0.2000000246846688,
	-8.33552299173139e-10,
	-0.3333333333160862,
	-1.8894178462249048e-13,
	1.0000000000000009,
	-4.1904552294565837e-19,
}

var atanCoeffs32 = []float64{
	0.022023164,
	-0.13374522,
	0.32946652,
	-0.37905943,
	0.1053119,
	0.16982068,
	0.005476566,
	-0.33393043,
	0.000035324891,
	0.99999905,
	0.0000000073035884,
}

func atanPoly(f float.Format) (Polynomial, error) {
	coeffs := atanCoeffs32
	if f.FractionWidth() > 23 {
		coeffs = atanCoeffs64
	}
	return NewPolynomial(f, coeffs)
}

// Atan approximates the arctangent. Arguments beyond one in magnitude
// fold through atan(x) = pi/2 - atan(1/x), so the polynomial only ever
// runs on [0, 1]. A zero comes back unchanged with its sign, an
// infinity maps to the format's nearest half pi, and NaN propagates.
func Atan(x float.Value) (float.Value, error) {
	if !x.IsValid() {
		return float.Value{}, fmt.Errorf("math: %w", logic.ErrUnknownBits)
	}
	if x.IsNaN() || x.IsZero() {
		return x, nil
	}
	f := x.Format()
	halfPi, err := f.Populator().OfDouble(math.Pi / 2)
	if err != nil {
		return float.Value{}, err
	}
	if x.IsInf() {
		if x.Signbit() {
			return halfPi.Neg(), nil
		}
		return halfPi, nil
	}

	mag := x.Abs()
	one, err := f.Constant(float.One)
	if err != nil {
		return float.Value{}, err
	}
	folded, err := mag.Gt(one)
	if err != nil {
		return float.Value{}, err
	}
	arg := mag
	if folded {
		if arg, err = one.Div(mag); err != nil {
			return float.Value{}, err
		}
	}
	p, err := atanPoly(f)
	if err != nil {
		return float.Value{}, err
	}
	res, err := p.Eval(arg)
	if err != nil {
		return float.Value{}, err
	}
	if folded {
		if res, err = halfPi.Sub(res); err != nil {
			return float.Value{}, err
		}
	}
	if x.Signbit() {
		res = res.Neg()
	}
	return res, nil
}

// Atan2 approximates the angle of the point (x, y), placing the result
// in the quadrant the operand signs select. A zero x resolves to the
// half pi of y's sign, and the origin is NaN.
func Atan2(y, x float.Value) (float.Value, error) {
	if !y.IsValid() || !x.IsValid() {
		return float.Value{}, fmt.Errorf("math: %w", logic.ErrUnknownBits)
	}
	f := y.Format()
	if x.Format() != f {
		return float.Value{}, fmt.Errorf("%w: %s against %s", float.ErrWidthMismatch, f, x.Format())
	}
	if y.IsNaN() || x.IsNaN() {
		return f.Constant(float.NaN)
	}
	if x.IsZero() {
		if y.IsZero() {
			return f.Constant(float.NaN)
		}
		halfPi, err := f.Populator().OfDouble(math.Pi / 2)
		if err != nil {
			return float.Value{}, err
		}
		if y.Signbit() {
			return halfPi.Neg(), nil
		}
		return halfPi, nil
	}
	q, err := y.Div(x)
	if err != nil {
		return float.Value{}, err
	}
	res, err := Atan(q)
	if err != nil {
		return float.Value{}, err
	}
	if x.Signbit() && !res.IsNaN() {
		pi, err := f.Populator().OfDouble(math.Pi)
		if err != nil {
			return float.Value{}, err
		}
		if y.Signbit() {
			return res.Sub(pi)
		}
		return res.Add(pi)
	}
	return res, nil
}

// Sin approximates the sine by its Taylor series. The series loses
// accuracy toward pi, so arguments beyond pi/2 fold across the symmetry
// axis first; magnitudes beyond pi are out of range and the caller must
// reduce them. An infinity has no sine and maps to NaN.
func Sin(x float.Value) (float.Value, error) {
	if !x.IsValid() {
		return float.Value{}, fmt.Errorf("math: %w", logic.ErrUnknownBits)
	}
	if x.IsNaN() || x.IsZero() {
		return x, nil
	}
	f := x.Format()
	if x.IsInf() {
		return f.Constant(float.NaN)
	}
	pi, err := f.Populator().OfDouble(math.Pi)
	if err != nil {
		return float.Value{}, err
	}
	halfPi, err := f.Populator().OfDouble(math.Pi / 2)
	if err != nil {
		return float.Value{}, err
	}

	mag := x.Abs()
	beyond, err := mag.Gt(pi)
	if err != nil {
		return float.Value{}, err
	}
	if beyond {
		return float.Value{}, fmt.Errorf("%w: |%s| is beyond pi, reduce the argument first",
			float.ErrRangeExceeded, x)
	}
	folded, err := mag.Gt(halfPi)
	if err != nil {
		return float.Value{}, err
	}
	term := mag
	if folded {
		if term, err = pi.Sub(mag); err != nil {
			return float.Value{}, err
		}
	}

	ret, err := f.Constant(float.PositiveZero)
	if err != nil {
		return float.Value{}, err
	}
	square, err := term.Mul(term)
	if err != nil {
		return float.Value{}, err
	}
	// Each round contributes term and then advances it by x^2 / 2i(2i+1),
	// alternating signs. Once the term underflows to zero the rest of the
	// series cannot move the sum.
	for i := 1; i <= 15 && !term.IsZero(); i++ {
		if i%2 == 0 {
			ret, err = ret.Sub(term)
		} else {
			ret, err = ret.Add(term)
		}
		if err != nil {
			return float.Value{}, err
		}
		num, err := term.Mul(square)
		if err != nil {
			return float.Value{}, err
		}
		den, err := f.Populator().OfDouble(float64(2 * i * (2*i + 1)))
		if err != nil {
			return float.Value{}, err
		}
		if term, err = num.Div(den); err != nil {
			return float.Value{}, err
		}
	}
	if x.Signbit() {
		ret = ret.Neg()
	}
	return ret, nil
}
