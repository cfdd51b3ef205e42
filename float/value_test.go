package float

import (
	"encoding/json"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"fpval/logic"
)

// classify returns which of the five classes a valid encoding falls into,
// and asserts that it falls into exactly one.
func classify(t *testing.T, v Value) string {
	t.Helper()
	classes := map[string]bool{
		"nan":       v.IsNaN(),
		"inf":       v.IsInf(),
		"zero":      v.IsZero(),
		"subnormal": v.IsSubnormal(),
		"normal":    v.IsNormal(),
	}
	var hits []string
	for name, hit := range classes {
		if hit {
			hits = append(hits, name)
		}
	}
	require.Len(t, hits, 1, "%s %s classified as %v", v.Format(), v, hits)
	return hits[0]
}

func TestClassificationPartition8Bit(t *testing.T) {
	cases := []struct {
		format Format
		counts map[string]int
	}{
		{E4M3, map[string]int{"nan": 2, "inf": 0, "zero": 2, "subnormal": 14, "normal": 238}},
		{E5M2, map[string]int{"nan": 6, "inf": 2, "zero": 2, "subnormal": 6, "normal": 240}},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			got := map[string]int{"nan": 0, "inf": 0, "zero": 0, "subnormal": 0, "normal": 0}
			for code := 0; code < 256; code++ {
				bits := logic.FromUint(uint64(code), 8)
				v := mustValue(t)(tc.format.Populator().OfPacked(bits))
				assert.True(t, v.Packed().Eq(bits), "code %#02x repacks differently", code)
				got[classify(t, v)]++
			}
			assert.Equal(t, tc.counts, got)
		})
	}
}

func TestClassificationSamples(t *testing.T) {
	a := assert.New(t)

	a.True(ofBits(t, FP16, "0 00000 0000000001").IsSubnormal())
	a.True(ofBits(t, FP16, "1 11111 0000000000").IsInf())
	a.True(ofBits(t, FP16, "0 11111 1000000000").IsNaN())
	a.True(ofBits(t, FP16, "0 11111 0000000001").IsNaN())
	a.True(ofBits(t, FP16, "1 00000 0000000000").IsZero())
	a.True(ofBits(t, FP16, "0 00001 0000000000").IsNormal())

	// The top e4m3 code is finite until the mantissa fills up.
	a.True(ofBits(t, E4M3, "0 1111 110").IsNormal())
	a.True(ofBits(t, E4M3, "0 1111 111").IsNaN())
	a.False(ofBits(t, E4M3, "0 1111 000").IsInf())
}

func TestSubnormalAsZeroClassification(t *testing.T) {
	a := assert.New(t)
	f := FP16.WithSubnormalAsZero()

	v := ofBits(t, f, "1 00000 0000000001")
	a.True(v.IsZero())
	a.False(v.IsSubnormal())
	d := mustDouble(t, v)
	a.Equal(0.0, math.Abs(d))
	a.True(math.Signbit(d))

	a.True(ofBits(t, f, "0 00001 0000000000").IsNormal())
}

func TestToDoubleValues(t *testing.T) {
	a := assert.New(t)

	a.Equal(0x1.fep127, mustDouble(t, constant(t, BF16, LargestNormal)))
	a.Equal(0x1p-16, mustDouble(t, ofBits(t, E5M2, "0 00000 01")))
	a.Equal(448.0, mustDouble(t, ofBits(t, E4M3, "0 1111 110")))
	a.Equal(0x1p-136, mustDouble(t, ofBits(t, TF32, "0 00000000 0000000001")))

	// The x87 range dwarfs the double range: its extremes convert to the
	// double's own extremes.
	a.True(math.IsInf(mustDouble(t, constant(t, X87Extended, LargestNormal)), 1))
	tiny := mustValue(t)(X87Extended.Populator().OfFields(false, 0, 1))
	a.Equal(0.0, mustDouble(t, tiny))
	a.False(math.Signbit(mustDouble(t, tiny)))
}

func TestStringForms(t *testing.T) {
	a := assert.New(t)
	v := ofDouble(t, FP16, 1.5)

	a.Equal("0 01111 1000000000", v.String())
	a.Equal("0011111000000000", v.BitString())
	a.Equal("(0, 15, 512)", v.TupleString())

	neg := ofDouble(t, FP16, -1.5)
	a.Equal("(1, 15, 512)", neg.TupleString())

	x := ofBits(t, FP16, "0 01x11 0000000000")
	a.Equal("0 01x11 0000000000", x.String())
	a.Equal(x.String(), x.TupleString())
}

func TestValueJSON(t *testing.T) {
	a := assert.New(t)

	v := ofDouble(t, FP16, 1.5)
	data, err := json.Marshal(v)
	require.NoError(t, err)
	a.JSONEq(`{"format":{"expWidth":5,"mantWidth":10},"bits":"0 01111 1000000000"}`, string(data))

	var back Value
	require.NoError(t, json.Unmarshal(data, &back))
	a.True(v.Eq(back))
	a.Equal(v.Format(), back.Format())

	// Unknown bits survive the round trip.
	x := ofBits(t, X87Extended.WithSubnormalAsZero(), "0 01x110000000000 "+logic.Zeros(64).String())
	data, err = json.Marshal(x)
	require.NoError(t, err)
	var xBack Value
	require.NoError(t, json.Unmarshal(data, &xBack))
	a.Equal(x.String(), xBack.String())
	a.Equal(x.Format(), xBack.Format())

	a.Error(json.Unmarshal([]byte(`{"format":{"expWidth":0,"mantWidth":3},"bits":"0 0 000"}`), &back))
}

func TestValueJSONAllConstants(t *testing.T) {
	formats := []Format{FP64, FP32, FP16, BF16, TF32, E4M3, E5M2, X87Extended}
	for _, f := range formats {
		for _, c := range Constants() {
			v, err := f.Constant(c)
			if err != nil {
				continue
			}
			data, err := json.Marshal(v)
			require.NoError(t, err, "%s %s", f, c)
			var back Value
			require.NoError(t, json.Unmarshal(data, &back), "%s %s", f, c)
			assert.Equal(t, v.String(), back.String(), "%s %s", f, c)
			assert.Equal(t, f, back.Format())
		}
	}
}

// Every 16-bit layout converts to a double exactly, so reconverting the
// double must land on the starting encoding for every code but NaN.
func TestExhaustiveSixteenBitRoundTrip(t *testing.T) {
	for _, f := range []Format{FP16, BF16.WithSubnormalAsZero(), BF16} {
		f := f
		t.Run(f.String(), func(t *testing.T) {
			var skipped atomic.Int64
			var g errgroup.Group
			const stride = 1 << 12
			for lo := 0; lo < 1<<16; lo += stride {
				lo := lo
				g.Go(func() error {
					for code := lo; code < lo+stride; code++ {
						v, err := f.Populator().OfPacked(logic.FromUint(uint64(code), 16))
						if err != nil {
							return err
						}
						if v.IsNaN() {
							skipped.Add(1)
							continue
						}
						d, err := v.ToDouble()
						if err != nil {
							return err
						}
						back, err := f.Populator().OfDoubleUnrounded(d)
						if err != nil {
							return fmt.Errorf("%s %#04x: %w", f, code, err)
						}
						want := v.String()
						if f.SubnormalAsZero && v.IsZero() {
							// Flushed subnormals come back as the signed zero.
							z := PositiveZero
							if v.Signbit() {
								z = NegativeZero
							}
							c, err := f.Constant(z)
							if err != nil {
								return err
							}
							want = c.String()
						}
						if got := back.String(); got != want {
							return fmt.Errorf("%s %#04x: %s reconverts to %s", f, code, want, got)
						}
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())
			if f == FP16 {
				assert.Equal(t, int64(2046), skipped.Load())
			}
		})
	}
}
