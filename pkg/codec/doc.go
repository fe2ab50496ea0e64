// Package codec implements the binary snapshot format for strand
// serialization.
//
// A snapshot is a stream holding any number of strands. Every multi-byte
// field is little-endian.
//
// # Snapshot Format
//
// The stream opens with a count word and is followed by that many entries:
//
//	[Count(4)] [Entry]...
//
// # Entry Format
//
// Each entry frames one strand:
//
//	[DataLength(4)][UnitSize(4)][Seed(8)][FormatID(4)][Sentinel(4)][Data]
//
// Fields:
//   - DataLength: 32-bit unsigned length of the data payload in bytes
//   - UnitSize: fixed tag, always 16; anything else is a format mismatch
//   - Seed: the strand's 64-bit identity
//   - FormatID: format revision, currently 1
//   - Sentinel: the word 0x0000000A (an ASCII newline), ending the header
//   - Data: DataLength bytes, the strand's logical content
//
// The region between Seed and Data is reserved: readers do not interpret
// FormatID, they skip 4-byte words until the sentinel appears, so future
// revisions may insert words there without breaking old readers. A reader
// gives up after MaxHeaderWords words without a sentinel and reports
// ErrFormatMismatch. Running out of input anywhere inside an entry reports
// ErrTruncatedRecord. Either error aborts the whole read; no partial strand
// list is returned.
//
// Deserialized strands are rebuilt with length == capacity == DataLength.
// Trailing padding in the source strand is not serialized and therefore not
// restored.
package codec
