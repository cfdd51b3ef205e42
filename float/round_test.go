package float

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestOfDoubleBasic(t *testing.T) {
	a := assert.New(t)

	a.Equal("0 01111111 00000000000000000000000", ofDouble(t, FP32, 1).String())
	a.Equal("1 10000000 01000000000000000000000", ofDouble(t, FP32, -2.5).String())
	a.Equal("0 01111 1000000000", ofDouble(t, FP16, 1.5).String())
	a.Equal("0 01011 1001100110", ofDouble(t, FP16, 0.1).String())
	a.Equal(0.0999755859375, mustDouble(t, ofDouble(t, FP16, 0.1)))
	a.Equal("0 01111101 0101011", ofDouble(t, BF16, 1.0/3.0).String())
	a.Equal(0.333984375, mustDouble(t, ofDouble(t, BF16, 1.0/3.0)))
}

func TestOfDoubleTiesFP16(t *testing.T) {
	a := assert.New(t)

	// Halfway between 1 and its successor, even mantissa wins.
	a.Equal("0 01111 0000000000", ofDouble(t, FP16, 1+0x1p-11).String())
	// Halfway with an odd low mantissa bit rounds up.
	a.Equal("0 01111 0000000010", ofDouble(t, FP16, 1+3*0x1p-11).String())
	// Anything beyond the halfway point rounds up regardless.
	a.Equal("0 01111 0000000001", ofDouble(t, FP16, 1+0x1p-11+0x1p-20).String())
}

func TestOfDoubleOverflowFP16(t *testing.T) {
	a := assert.New(t)

	a.Equal(65504.0, mustDouble(t, ofDouble(t, FP16, 65519)))
	// 65520 is halfway to the unrepresentable 65536; the tie increment
	// rolls the mantissa into the reserved exponent.
	a.True(ofDouble(t, FP16, 65520).IsInf())
	a.True(ofDouble(t, FP16, 65536).IsInf())
	a.True(ofDouble(t, FP16, -65520).Signbit())

	// Truncation never crosses into the reserved code.
	a.Equal(65504.0, mustDouble(t, ofDouble(t, FP16, 65520, WithRounding(RoundTruncate))))
}

func TestOfDoubleUnderflowFP16(t *testing.T) {
	a := assert.New(t)

	// Halfway between zero and the smallest subnormal, zero is even.
	a.Equal("0 00000 0000000000", ofDouble(t, FP16, 0x1p-25).String())
	a.Equal("1 00000 0000000000", ofDouble(t, FP16, -0x1p-25).String())
	// A sticky bit past halfway pulls the result up.
	a.Equal("0 00000 0000000001", ofDouble(t, FP16, 0x1p-25+0x1p-30).String())
	a.Equal("0 00000 0000000001", ofDouble(t, FP16, 0x1p-24).String())
}

func TestOfDoubleSpecials(t *testing.T) {
	a := assert.New(t)

	a.True(ofDouble(t, FP16, math.NaN()).IsNaN())
	a.Equal("0 11111 0000000000", ofDouble(t, FP16, math.Inf(1)).String())
	a.Equal("1 11111 0000000000", ofDouble(t, FP16, math.Inf(-1)).String())
	a.Equal("0 00000 0000000000", ofDouble(t, FP16, 0).String())
	a.Equal("1 00000 0000000000", ofDouble(t, FP16, math.Copysign(0, -1)).String())

	_, err := E4M3.Populator().OfDouble(math.Inf(1))
	a.ErrorIs(err, ErrInfinityUnsupported)
	a.True(ofDouble(t, E4M3, math.NaN()).IsNaN())
	a.True(ofDouble(t, E5M2, math.Inf(1)).IsInf())
}

func TestOfDoubleRangeChecked(t *testing.T) {
	a := assert.New(t)

	a.Equal(448.0, mustDouble(t, ofDouble(t, E4M3, 448)))
	_, err := E4M3.Populator().OfDouble(449)
	a.ErrorIs(err, ErrRangeExceeded)
	_, err = E4M3.Populator().OfDouble(-460)
	a.ErrorIs(err, ErrRangeExceeded)
	a.Equal(0x1p-9, mustDouble(t, ofDouble(t, E4M3, 0x1p-9)))
	_, err = E4M3.Populator().OfDouble(0x1p-10)
	a.ErrorIs(err, ErrRangeExceeded)

	a.Equal(57344.0, mustDouble(t, ofDouble(t, E5M2, 57344)))
	_, err = E5M2.Populator().OfDouble(61440)
	a.ErrorIs(err, ErrRangeExceeded)
	a.Equal(0x1p-16, mustDouble(t, ofDouble(t, E5M2, 0x1p-16)))
	_, err = E5M2.Populator().OfDouble(0x1p-17)
	a.ErrorIs(err, ErrRangeExceeded)
}

func TestWithFiniteClamp(t *testing.T) {
	a := assert.New(t)

	a.Equal(448.0, mustDouble(t, ofDouble(t, E4M3, 1000, WithFiniteClamp())))
	a.Equal(-448.0, mustDouble(t, ofDouble(t, E4M3, -1000, WithFiniteClamp())))
	a.Equal(448.0, mustDouble(t, ofDouble(t, E4M3, math.Inf(1), WithFiniteClamp())))
	a.Equal(-57344.0, mustDouble(t, ofDouble(t, E5M2, -1e9, WithFiniteClamp())))
	a.Equal(65504.0, mustDouble(t, ofDouble(t, FP16, 1e6, WithFiniteClamp())))
	a.Equal(-65504.0, mustDouble(t, ofDouble(t, FP16, math.Inf(-1), WithFiniteClamp())))

	// In range the clamp is a no-op.
	a.Equal("0 01111 1000000000", ofDouble(t, FP16, 1.5, WithFiniteClamp()).String())
}

func TestOfDoubleSubnormalAsZero(t *testing.T) {
	a := assert.New(t)
	f := FP16.WithSubnormalAsZero()

	a.Equal("0 00000 0000000000", ofDouble(t, f, 0x1p-24).String())
	a.Equal("1 00000 0000000000", ofDouble(t, f, -0x1p-16).String())
	a.Equal("0 00001 0000000000", ofDouble(t, f, 0x1p-14).String())
}

func TestOfDoubleUnsupportedModes(t *testing.T) {
	a := assert.New(t)
	for _, m := range []RoundingMode{RoundNearestAway, RoundTowardPositive, RoundTowardNegative} {
		_, err := FP16.Populator().OfDouble(1.5, WithRounding(m))
		a.ErrorIs(err, ErrUnsupportedRounding, m.String())
	}
}

func TestRoundingModeNames(t *testing.T) {
	a := assert.New(t)

	for _, m := range []RoundingMode{
		RoundNearestEven, RoundTruncate, RoundNearestAway, RoundTowardPositive, RoundTowardNegative,
	} {
		back, err := ParseRoundingMode(m.String())
		require.NoError(t, err)
		a.Equal(m, back)
	}
	a.Equal("roundingMode(99)", RoundingMode(99).String())
	_, err := ParseRoundingMode("floor")
	a.ErrorIs(err, ErrUnsupportedRounding)
}

func TestOfDoubleFP64Identity(t *testing.T) {
	a := assert.New(t)

	directed := []float64{
		0, math.Copysign(0, -1), 1, -1, 0.5, 1.0 / 3.0, math.Pi,
		1e308, math.MaxFloat64, math.SmallestNonzeroFloat64,
		2.2250738585072014e-308, math.Inf(1), math.Inf(-1),
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		directed = append(directed, math.Float64frombits(rng.Uint64()))
	}
	for _, d := range directed {
		if math.IsNaN(d) {
			continue
		}
		v := ofDouble(t, FP64, d)
		got, err := v.Packed().Uint64()
		require.NoError(t, err)
		a.Equal(math.Float64bits(d), got, "%v", d)
	}
}

// Every half-width conversion is checked against the x448 reference
// implementation. float32 to float64 is exact, so going through the double
// path cannot double round.
func TestFP16AgainstReference(t *testing.T) {
	directed := []float32{
		0, float32(math.Copysign(0, -1)), 1, -1, 1.5, 0.1, 65504, 65519, 65520, 65535, 65536,
		0x1p-24, 0x1p-25, -0x1p-25, 0x1p-14, 6.1e-5, 3.14159265,
		float32(math.Inf(1)), float32(math.Inf(-1)),
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		directed = append(directed, math.Float32frombits(rng.Uint32()))
	}
	for _, f32 := range directed {
		if math.IsNaN(float64(f32)) {
			continue
		}
		want := float16.Fromfloat32(f32).Bits()
		v := ofDouble(t, FP16, float64(f32))
		got, err := v.Packed().Uint64()
		require.NoError(t, err)
		assert.Equal(t, want, uint16(got), "input %v (%#08x)", f32, math.Float32bits(f32))
	}
}

func TestTruncateMatchesUnrounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	draw := func(f Format) (float64, bool) {
		prof := f.profile()
		if !prof.rangeCheck {
			d := rng.NormFloat64() * math.Pow(2, float64(rng.Intn(60)-30))
			return d, true
		}
		d := (rng.Float64()*2 - 1) * prof.maxFinite
		if math.Abs(d) < prof.minFinite {
			return 0, false
		}
		return d, true
	}

	formats := []Format{FP16, BF16, TF32, FP32, E4M3, E5M2, X87Extended, FP16.WithSubnormalAsZero()}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			for i := 0; i < 300; i++ {
				d, ok := draw(f)
				if !ok {
					continue
				}
				truncated, err := f.Populator().OfDouble(d, WithRounding(RoundTruncate))
				require.NoError(t, err, "input %v", d)
				exact, err := f.Populator().OfDoubleUnrounded(d)
				require.NoError(t, err, "input %v", d)
				assert.Equal(t, truncated.String(), exact.String(), "input %v", d)
			}
		})
	}
}

func TestOfDoubleUnroundedSpecials(t *testing.T) {
	a := assert.New(t)

	v := mustValue(t)(FP16.Populator().OfDoubleUnrounded(math.Inf(1)))
	a.True(v.IsInf())
	v = mustValue(t)(E4M3.Populator().OfDoubleUnrounded(math.Inf(1)))
	a.Equal(448.0, mustDouble(t, v))
	v = mustValue(t)(E4M3.Populator().OfDoubleUnrounded(1000))
	a.Equal(448.0, mustDouble(t, v))
	v = mustValue(t)(FP16.Populator().OfDoubleUnrounded(math.Copysign(0, -1)))
	a.Equal("1 00000 0000000000", v.String())
	v = mustValue(t)(FP16.Populator().OfDoubleUnrounded(math.NaN()))
	a.True(v.IsNaN())

	// Truncation of a value below the subnormal range bottoms out at zero.
	v = mustValue(t)(FP16.Populator().OfDoubleUnrounded(0x1p-30))
	a.Equal("0 00000 0000000000", v.String())
}
