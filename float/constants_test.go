package float

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantCatalogFP16(t *testing.T) {
	want := map[Constant]string{
		NegativeInfinity:          "1 11111 0000000000",
		NegativeZero:              "1 00000 0000000000",
		PositiveZero:              "0 00000 0000000000",
		SmallestPositiveSubnormal: "0 00000 0000000001",
		LargestPositiveSubnormal:  "0 00000 1111111111",
		SmallestPositiveNormal:    "0 00001 0000000000",
		LargestLessThanOne:        "0 01110 1111111111",
		One:                       "0 01111 0000000000",
		SmallestLargerThanOne:     "0 01111 0000000001",
		LargestNormal:             "0 11110 1111111111",
		PositiveInfinity:          "0 11111 0000000000",
		NaN:                       "0 11111 0000000001",
	}
	got := map[Constant]string{}
	for _, c := range Constants() {
		got[c] = constant(t, FP16, c).String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestConstantValues(t *testing.T) {
	tests := []struct {
		format Format
		c      Constant
		want   float64
	}{
		{FP16, SmallestPositiveSubnormal, 0x1p-24},
		{FP16, LargestPositiveSubnormal, 0x1.ff8p-15},
		{FP16, SmallestPositiveNormal, 0x1p-14},
		{FP16, LargestLessThanOne, 0x1.ffcp-1},
		{FP16, One, 1},
		{FP16, SmallestLargerThanOne, 1 + 0x1p-10},
		{FP16, LargestNormal, 65504},
		{FP32, SmallestPositiveSubnormal, 0x1p-149},
		{FP32, SmallestPositiveNormal, 0x1p-126},
		{FP32, LargestNormal, 0x1.fffffep127},
		{BF16, LargestNormal, 0x1.fep127},
		{BF16, SmallestPositiveSubnormal, 0x1p-133},
		{TF32, LargestNormal, 0x1.ffcp127},
		{E4M3, SmallestPositiveSubnormal, 0x1p-9},
		{E4M3, LargestPositiveSubnormal, 0x1.cp-7},
		{E4M3, SmallestPositiveNormal, 0x1p-6},
		{E4M3, LargestLessThanOne, 0.9375},
		{E4M3, One, 1},
		{E4M3, SmallestLargerThanOne, 1.125},
		{E4M3, LargestNormal, 448},
		{E5M2, SmallestPositiveSubnormal, 0x1p-16},
		{E5M2, LargestPositiveSubnormal, 0x1.8p-15},
		{E5M2, SmallestPositiveNormal, 0x1p-14},
		{E5M2, LargestLessThanOne, 0.875},
		{E5M2, SmallestLargerThanOne, 1.25},
		{E5M2, LargestNormal, 57344},
	}
	for _, test := range tests {
		t.Run(test.format.String()+"/"+test.c.String(), func(t *testing.T) {
			got := mustDouble(t, constant(t, test.format, test.c))
			assert.Equal(t, test.want, got)
		})
	}
}

func TestConstantSpecials(t *testing.T) {
	a := assert.New(t)

	for _, f := range []Format{FP64, FP32, FP16, BF16, TF32, E5M2, X87Extended} {
		pos := constant(t, f, PositiveInfinity)
		a.True(pos.IsInf(), "%s +inf", f)
		a.False(pos.Signbit())
		neg := constant(t, f, NegativeInfinity)
		a.True(neg.IsInf(), "%s -inf", f)
		a.True(neg.Signbit())
		nan := constant(t, f, NaN)
		a.True(nan.IsNaN(), "%s nan", f)
		a.True(math.IsNaN(mustDouble(t, nan)))
	}

	// E4M3 spends its top code on finite values.
	_, err := E4M3.Constant(PositiveInfinity)
	a.ErrorIs(err, ErrInfinityUnsupported)
	_, err = E4M3.Constant(NegativeInfinity)
	a.ErrorIs(err, ErrInfinityUnsupported)

	nan := constant(t, E4M3, NaN)
	a.Equal("0 1111 111", nan.String())
	a.True(nan.IsNaN())
	a.Equal("0 1111 110", constant(t, E4M3, LargestNormal).String())
}

func TestConstantOrdering(t *testing.T) {
	for _, f := range []Format{FP64, FP32, FP16, BF16, TF32, E4M3, E5M2, X87Extended} {
		t.Run(f.String(), func(t *testing.T) {
			var prev *Value
			for _, c := range Constants() {
				if c == NaN {
					continue
				}
				v, err := f.Constant(c)
				if err != nil {
					require.ErrorIs(t, err, ErrInfinityUnsupported)
					continue
				}
				if prev != nil {
					le, err := prev.Le(v)
					require.NoError(t, err)
					assert.True(t, le, "%s: %s above its successor", f, prev)
				}
				prev = &v
			}
		})
	}
}
