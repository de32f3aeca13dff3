package valuecodec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gorilla/bitio"
	"github.com/arloliu/gorilla/tserrors"
)

func roundTripValues(t *testing.T, vs []uint64) []uint64 {
	t.Helper()

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()

	for _, v := range vs {
		require.NoError(t, c.Compress(w, v))
	}
	require.NoError(t, c.Finish(w))
	require.NoError(t, w.FlushAlign(0))

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	d := NewDecompressor()

	var got []uint64
	for {
		v, ok, err := d.Next(r)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, v)
	}

	return got
}

func f64(f float64) uint64 { return math.Float64bits(f) }

func TestCompressorDecompressorRoundTrip(t *testing.T) {
	cases := map[string][]uint64{
		"single":           {f64(12.0)},
		"constant value":   {f64(12.0), f64(12.0), f64(12.0)},
		"gorilla example":  {f64(12.0), f64(12.0), f64(24.0), f64(24.0), f64(24.0)},
		"large swing":      {f64(1.0), f64(1e300), f64(-1.0), f64(0.0)},
		"integers":         {0, 1, 2, 4, 8, 16, 1 << 40},
		"alternating bits": {0x0000000000000000, 0xFFFFFFFFFFFFFFFF ^ 1, 0x00000000FFFFFFFF},
	}

	for name, vs := range cases {
		t.Run(name, func(t *testing.T) {
			got := roundTripValues(t, vs)
			require.Equal(t, vs, got)
		})
	}
}

func TestEmptyStream(t *testing.T) {
	got := roundTripValues(t, nil)
	require.Nil(t, got)
}

func TestReuseWindowPath(t *testing.T) {
	// Three consecutive XORs whose significant bits all fit inside the
	// window of the first: the first establishes a "new window" (prefix
	// 11), the next two take the "reuse window" (prefix 10) path.
	vs := []uint64{
		0x0000000000000000,
		0x00000000000000F0,
		0x0000000000000030,
		0x00000000000000C0,
	}

	got := roundTripValues(t, vs)
	require.Equal(t, vs, got)
}

func TestSignificantBitsZeroMeansSixtyFour(t *testing.T) {
	// xor with lz=0, tz=0 forces significant=64, which wraps to a 0 wire
	// value in the 6-bit field; the decoder must reinterpret 0 as 64.
	vs := []uint64{0x0000000000000000, 0xFFFFFFFFFFFFFFFF}

	got := roundTripValues(t, vs)
	require.Equal(t, vs, got)
}

func TestSeedFirstBypassesSentinelCheck(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	// Write the value-codec sentinel pattern directly as if it were a
	// legitimate first value (this is what pairscodec does when the
	// timestamp side has already confirmed real data follows).
	require.NoError(t, w.WriteBits(sentinelFirst, 64))
	require.NoError(t, w.FlushAlign(0))

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))

	vBits, err := r.ReadBits(64)
	require.NoError(t, err)
	require.Equal(t, sentinelFirst, vBits)

	d := NewDecompressor()
	d.SeedFirst(vBits)
	require.Equal(t, sentinelFirst, d.lastValue)
	require.Equal(t, stateRunning, d.state)
}

func TestStandaloneFirstSentinelIsEndOfStream(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()
	require.NoError(t, c.Finish(w)) // never compressed: writes the FRESH sentinel
	require.NoError(t, w.FlushAlign(0))

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	d := NewDecompressor()
	_, ok, err := d.Next(r)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompressIllegalStateAfterFinish(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()

	require.NoError(t, c.Compress(w, 1))
	require.NoError(t, c.Finish(w))

	err := c.Compress(w, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, tserrors.ErrIllegalState))

	err = c.Finish(w)
	require.Error(t, err)
	require.True(t, errors.Is(err, tserrors.ErrIllegalState))
}
