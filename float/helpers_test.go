package float

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T) func(Value, error) Value {
	return func(v Value, err error) Value {
		t.Helper()
		require.NoError(t, err)
		return v
	}
}

func mustDouble(t *testing.T, v Value) float64 {
	t.Helper()
	d, err := v.ToDouble()
	require.NoError(t, err)
	return d
}

func ofDouble(t *testing.T, f Format, d float64, opts ...RoundOption) Value {
	t.Helper()
	return mustValue(t)(f.Populator().OfDouble(d, opts...))
}

func ofBits(t *testing.T, f Format, spaced string) Value {
	t.Helper()
	return mustValue(t)(f.Populator().OfSpacedBinaryString(spaced))
}

func constant(t *testing.T, f Format, c Constant) Value {
	t.Helper()
	return mustValue(t)(f.Constant(c))
}
