// Package strand implements the growable byte sequences that hold genome
// data, plus fixed-width aligned views over them.
//
// A Strand owns a contiguous backing array, a logical write length, and a
// 64-bit seed that identifies the strand across serialization. Writes past
// the end of the backing array reallocate it with doubling growth and zero
// fill, so previously written bytes are never lost and padding always reads
// as zero.
//
// View32 and View64 are non-owning facades that address a borrowed Strand in
// aligned 4-byte or 8-byte units, encoding values little-endian one byte at
// a time through the strand's own write path. Views hold no state of their
// own; the next free slot is recomputed from the strand's current length on
// every append, so interleaved views of different widths stay consistent.
//
// Nothing in this package locks. A strand and its views have a single
// logical owner; concurrent callers must serialize access themselves.
package strand
