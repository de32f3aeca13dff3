// Package gorilla provides a compact binary format for a single
// monotonically-timestamped numeric series, using the delta-of-delta
// timestamp scheme and XOR-based value scheme described in Facebook's
// Gorilla paper.
//
// # Core Features
//
//   - Delta-of-delta timestamp compression with a variable-width prefix code
//   - XOR-based value compression with leading/trailing zero-run reuse
//   - A single MSB-first bit stream shared by both encodings
//   - An explicit end-of-stream sentinel, so streams don't need a length
//     prefix or external framing to know when they're exhausted
//
// # Basic Usage
//
// Encoding a series of pairs:
//
//	var buf bytes.Buffer
//	enc := gorilla.NewEncoder(&buf)
//	for _, p := range pairs {
//	    if err := enc.Compress(p.Timestamp, p.Value); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := enc.Finish(); err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding it back:
//
//	dec := gorilla.NewDecoder(&buf)
//	for {
//	    t, v, ok, err := dec.Next()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if !ok {
//	        break
//	    }
//	    fmt.Printf("t=%d v=%d\n", t, v)
//	}
//
// # Package Structure
//
// This package is a thin convenience wrapper around pairscodec, plus
// EncodePairs/DecodePairs helpers for the common case of encoding or
// decoding an entire series held in memory. For standalone timestamp-only
// or value-only streams, use tscodec and valuecodec directly.
package gorilla

import (
	"bytes"
	"io"

	"github.com/arloliu/gorilla/pairscodec"
)

// Pair is a single (timestamp, value) sample. Value holds the raw 64-bit
// pattern to compress; callers working with IEEE-754 floats convert with
// math.Float64bits / math.Float64frombits before and after.
type Pair struct {
	Timestamp uint64
	Value     uint64
}

// Encoder writes a stream of Pairs. It is a direct alias for
// pairscodec.Encoder, exported here so common callers never need to import
// the pairscodec package themselves.
type Encoder = pairscodec.Encoder

// Decoder reads a stream of Pairs written by Encoder.
type Decoder = pairscodec.Decoder

// NewEncoder creates an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return pairscodec.NewEncoder(w)
}

// NewDecoder creates a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return pairscodec.NewDecoder(r)
}

// EncodePairs compresses every pair in ps into a single byte slice. An empty
// ps produces a valid, minimal empty stream.
func EncodePairs(ps []Pair) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)
	for _, p := range ps {
		if err := enc.Compress(p.Timestamp, p.Value); err != nil {
			return nil, err
		}
	}

	if err := enc.Finish(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodePairs decompresses every pair out of data, reading until
// end-of-stream.
func DecodePairs(data []byte) ([]Pair, error) {
	dec := NewDecoder(bytes.NewReader(data))

	var ps []Pair
	for {
		t, v, ok, err := dec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return ps, nil
		}

		ps = append(ps, Pair{Timestamp: t, Value: v})
	}
}
