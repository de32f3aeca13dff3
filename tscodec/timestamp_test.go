package tscodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gorilla/bitio"
	"github.com/arloliu/gorilla/tserrors"
)

func TestHeader(t *testing.T) {
	require.Equal(t, uint64(1427148000), Header(1427151662))
	require.Equal(t, uint64(0), Header(0))
	require.Equal(t, uint64(7200), Header(7200))
	require.Equal(t, uint64(7200), Header(14399))
}

func roundTripTimestamps(t *testing.T, ts []uint64) []uint64 {
	t.Helper()

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()

	for _, ts := range ts {
		require.NoError(t, c.Compress(w, ts))
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

func TestCompressorDecompressorRoundTrip(t *testing.T) {
	cases := map[string][]uint64{
		"single":                {1427151662},
		"constant stride":       {1427151662, 1427151722, 1427151782, 1427151842},
		"gorilla paper example": {1427151662, 1427151722, 1427151782, 1427151845, 1427151851},
		"stride reversal":       {1000, 1060, 1120, 1070, 1200},
		"large jump":            {1000, 1060, 1120, 50000000},
		"identical timestamp":   {1000, 1000, 1000},
	}

	for name, ts := range cases {
		t.Run(name, func(t *testing.T) {
			got := roundTripTimestamps(t, ts)
			require.Equal(t, ts, got)
		})
	}
}

func TestEmptyStream(t *testing.T) {
	got := roundTripTimestamps(t, nil)
	require.Nil(t, got)
}

func TestDecompressorHeader(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()

	_, known := NewDecompressor().Header()
	require.False(t, known)

	require.NoError(t, c.Compress(w, 1427151662))
	require.NoError(t, c.Finish(w))
	require.NoError(t, w.FlushAlign(0))

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	d := NewDecompressor()
	_, ok, err := d.Next(r)
	require.NoError(t, err)
	require.True(t, ok)

	header, known := d.Header()
	require.True(t, known)
	require.Equal(t, uint64(1427148000), header)
}

func TestDodBucketBoundaries(t *testing.T) {
	base := uint64(1000)
	// delta sequence chosen to push dod into each of the four non-zero
	// buckets in turn: +1 (7-bit), then +100 (9-bit, since 111-11=100 dod
	// exceeds the 7-bit range), then +1000 (12-bit), then +99000 (64-bit).
	ts := []uint64{
		base,
		base + 10,
		base + 21,  // delta 11, dod 1 -> 7-bit bucket
		base + 132, // delta 111, dod 100 -> 9-bit bucket
		base + 1243, // delta 1111, dod 1000 -> 12-bit bucket
		base + 101354, // delta 100111, dod 99000 -> 64-bit bucket
	}

	got := roundTripTimestamps(t, ts)
	require.Equal(t, ts, got)
}

func TestCompressIllegalStateAfterFinish(t *testing.T) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	c := NewCompressor()

	require.NoError(t, c.Compress(w, 1000))
	require.NoError(t, c.Finish(w))

	err := c.Compress(w, 1001)
	require.Error(t, err)
	require.True(t, errors.Is(err, tserrors.ErrIllegalState))

	err = c.Finish(w)
	require.Error(t, err)
	require.True(t, errors.Is(err, tserrors.ErrIllegalState))
}

func TestReadDODPrefixTruncatedInput(t *testing.T) {
	// An empty source stands in for a stream truncated before a dod code:
	// ReadBit surfaces ErrUnexpectedEOF. ErrMalformedPrefix is not reachable
	// from readDODPrefix, since every scan of at most 4 bits lands on one of
	// the five defined prefixes.
	r := bitio.NewReader(bytes.NewReader(nil))
	_, err := readDODPrefix(r)
	require.Error(t, err)
	require.True(t, errors.Is(err, tserrors.ErrUnexpectedEOF))
}
