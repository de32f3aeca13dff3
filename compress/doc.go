// Package compress provides optional outer-container compression for
// already bit-packed gorilla streams.
//
// The core codec (bitio/tscodec/valuecodec/pairscodec) never compresses its
// own output further; it is already a dense bit-packed encoding. This
// package is strictly an opt-in second stage, applied by cmd/gorillac's
// --compress flag to a finished byte stream before it is framed by
// internal/container. Two codecs are built in:
//
//   - None (format.CompressionNone): passthrough, for streams the caller
//     doesn't want a second compression pass over
//   - Zstd (format.CompressionZstd): general-purpose compression, for
//     cases where storage or transmission cost outweighs the extra CPU
//
// GetCodec resolves a format.CompressionType to the matching Codec;
// internal/container uses it rather than switching on the type itself.
package compress
