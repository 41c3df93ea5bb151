// Package serialize implements the binary on-disk format of spec §4.3:
// a 4-byte magic, a compression-level field, an optional gzip envelope,
// a shared key-intern table, and a depth-first pre-order tree body. All
// three storage flavors in radix/store share this format bit-for-bit, so
// an index saved with one can be loaded with any other (spec §4.4).
package serialize

import "errors"

// Magic is the 4-byte ASCII marker every stream starts with.
const Magic = "FTS0"

// Compression levels, stored as a 32-bit little-endian signed integer
// right after the magic. The field is reserved for future codecs beyond
// "none" and "gzip", which is why it is a level rather than a bool.
const (
	CompressionNone = int32(0)
	CompressionGzip = int32(1)
)

// Errors returned by Load, matching spec §7's MalformedInput /
// InvalidArgument / KeyCodecError / IoError taxonomy. IoError has no
// sentinel here: the underlying io error is returned as-is. A codec
// Decode failure is wrapped in ErrKeyCodec, with the codec's own error
// still reachable through errors.Is/errors.As.
var (
	// ErrBadMagic is returned when the stream's first four bytes are not
	// "FTS0".
	ErrBadMagic = errors.New("serialize: bad magic")
	// ErrUnknownCompression is returned for a compression-level field
	// other than CompressionNone or CompressionGzip.
	ErrUnknownCompression = errors.New("serialize: unknown compression level")
	// ErrTruncated is returned when the stream ends before a complete
	// frame could be read.
	ErrTruncated = errors.New("serialize: truncated stream")
	// ErrInternIndexOutOfRange is returned when a node references an
	// intern-table slot that doesn't exist.
	ErrInternIndexOutOfRange = errors.New("serialize: intern index out of range")
	// ErrKeyCodec wraps a Decode failure from the caller-supplied key
	// codec while parsing the intern table (spec §7 KeyCodecError).
	ErrKeyCodec = errors.New("serialize: key codec failed to decode intern entry")
)
