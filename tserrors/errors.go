// Package tserrors defines the sentinel errors shared by the bitio, tscodec,
// valuecodec and pairscodec packages.
//
// Callers should use errors.Is against these sentinels rather than comparing
// error strings, since every returned error wraps one of them with
// fmt.Errorf("%w: ...") for additional context.
package tserrors

import "errors"

var (
	// ErrUnexpectedEOF is returned when the underlying byte source is
	// exhausted in the middle of a bit-level read that requires more bits.
	ErrUnexpectedEOF = errors.New("gorilla: unexpected end of stream")

	// ErrMalformedPrefix is returned when a timestamp delta-of-delta prefix
	// scan does not land on one of the defined codes (0, 10, 110, 1110,
	// 1111).
	ErrMalformedPrefix = errors.New("gorilla: malformed delta-of-delta prefix")

	// ErrIllegalState is returned when Compress is called after Finish, or
	// Finish is called twice. Next after end-of-stream is not an error: it
	// keeps reporting end-of-stream.
	ErrIllegalState = errors.New("gorilla: illegal codec state")
)
