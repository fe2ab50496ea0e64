// Package gene implements fixed-capacity records of paired allele values.
//
// A Record keeps up to eight pairs as explicit lanes tagged with a width
// tier, rather than as pre-shifted machine words; the packed wire form only
// exists at the serialization boundary (see Words and FromWords). All lanes
// of a record share one tier, and the lane budget is what fits in one 64-bit
// word: one 64-bit lane, two 32-bit, four 16-bit or eight 8-bit lanes.
package gene

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTier is returned when a tier value is not one of the four
	// defined widths.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrValueRange is returned when an allele value does not fit the
	// requested tier.
	ErrValueRange = errors.New("value out of range for tier")

	// ErrTierMismatch is returned when an append's tier differs from the
	// tier the record adopted, and force was not requested.
	ErrTierMismatch = errors.New("tier mismatch")

	// ErrExhausted is returned when every lane is occupied and force was
	// not requested. The record also raises FlagExhausted.
	ErrExhausted = errors.New("record exhausted")

	// ErrMalformedWords is returned by FromWords when the meta word does
	// not describe a record this package could have produced.
	ErrMalformedWords = errors.New("malformed wire words")
)

// Tier selects the byte width of the allele values in a record's lanes. The
// numeric value of a tier is its lane width in bytes.
type Tier uint8

const (
	Tier8  Tier = 1
	Tier16 Tier = 2
	Tier32 Tier = 4
	Tier64 Tier = 8
)

// laneBudget is the per-word allele byte budget: each packed data word is
// one uint64, so eight bytes of lanes fit regardless of tier.
const laneBudget = 8

// LaneBytes returns the number of bytes one lane at this tier occupies in a
// packed data word.
func (t Tier) LaneBytes() int { return int(t) }

// Lanes returns how many lanes a record holds at this tier.
func (t Tier) Lanes() int { return laneBudget / int(t) }

// Max returns the largest allele value representable at this tier.
func (t Tier) Max() uint64 {
	if t == Tier64 {
		return math.MaxUint64
	}
	return 1<<(8*uint(t)) - 1
}

func (t Tier) valid() bool {
	switch t {
	case Tier8, Tier16, Tier32, Tier64:
		return true
	}
	return false
}

func (t Tier) String() string {
	switch t {
	case Tier8:
		return "tier8"
	case Tier16:
		return "tier16"
	case Tier32:
		return "tier32"
	case Tier64:
		return "tier64"
	}
	return fmt.Sprintf("tier(%d)", uint8(t))
}

// Pair is one appended entry: a primary and a secondary allele candidate,
// each with one byte of dominance metadata.
type Pair struct {
	Primary      uint64
	Secondary    uint64
	DomPrimary   byte
	DomSecondary byte
}

// Flags are the sticky condition bits a record raises on unusual appends.
// They are advisory state, not errors in themselves, and do not travel on
// the wire.
type Flags uint8

const (
	// FlagExhausted marks a rejected append against a full record.
	FlagExhausted Flags = 1 << iota

	// FlagOverride marks a forced append that evicted existing data.
	FlagOverride
)

// Record is a fixed-capacity store for paired allele values. It never
// reallocates: a full record rejects plain appends, and forced appends make
// room by evicting the oldest lane.
//
// A record has a single owner and is not safe for concurrent use.
type Record struct {
	header uint64
	tier   Tier
	count  int
	lanes  [laneBudget]Pair
	flags  Flags
}

// NewRecord returns an empty record with no tier adopted.
func NewRecord() *Record { return &Record{} }

// Append inserts pair as the newest lane.
//
// An empty record adopts the tier of its first append. Afterwards an append
// at a different tier fails with ErrTierMismatch unless force is true, in
// which case the record clears and restarts at the new tier with
// FlagOverride raised. When every lane is occupied, a plain append fails
// with ErrExhausted and raises FlagExhausted; a forced append evicts the
// oldest lane instead. At Tier64 the single lane means a forced append
// always replaces the whole record.
//
// A successful append clears both flags before raising any of its own, so
// the flags always describe the latest mutation.
func (r *Record) Append(tier Tier, pair Pair, force bool) error {
	if !tier.valid() {
		return fmt.Errorf("gene: append %s: %w", tier, ErrInvalidTier)
	}
	if pair.Primary > tier.Max() || pair.Secondary > tier.Max() {
		return fmt.Errorf("gene: append %s pair (%#x, %#x): %w",
			tier, pair.Primary, pair.Secondary, ErrValueRange)
	}

	if r.count > 0 && tier != r.tier {
		if !force {
			return fmt.Errorf("gene: append %s to %s record: %w", tier, r.tier, ErrTierMismatch)
		}
		r.Clear()
		r.tier = tier
		r.lanes[0] = pair
		r.count = 1
		r.flags = FlagOverride
		return nil
	}

	if r.count == 0 {
		r.tier = tier
	}
	if r.count < tier.Lanes() {
		r.lanes[r.count] = pair
		r.count++
		r.flags = 0
		return nil
	}

	if !force {
		r.flags |= FlagExhausted
		return fmt.Errorf("gene: append %s to full record: %w", tier, ErrExhausted)
	}

	// Evict the oldest lane; at Tier64 that is the only lane there is.
	copy(r.lanes[:r.count-1], r.lanes[1:r.count])
	r.lanes[r.count-1] = pair
	r.flags = FlagOverride
	return nil
}

// Clear drops every lane and resets the tier and condition flags. The header
// word is kept.
func (r *Record) Clear() {
	r.tier = 0
	r.count = 0
	r.lanes = [laneBudget]Pair{}
	r.flags = 0
}

// Header returns the reserved header word.
func (r *Record) Header() uint64 { return r.header }

// SetHeader stores the reserved header word. Clear does not touch it.
func (r *Record) SetHeader(h uint64) { r.header = h }

// Tier returns the adopted tier; ok is false while the record is empty.
func (r *Record) Tier() (tier Tier, ok bool) { return r.tier, r.count > 0 }

// Len returns the number of occupied lanes.
func (r *Record) Len() int { return r.count }

// UsedBytes reports how many bytes of the packed data words the occupied
// lanes cover.
func (r *Record) UsedBytes() int {
	if r.count == 0 {
		return 0
	}
	return r.count * r.tier.LaneBytes()
}

// Pairs returns a copy of the occupied lanes, oldest first.
func (r *Record) Pairs() []Pair {
	out := make([]Pair, r.count)
	copy(out, r.lanes[:r.count])
	return out
}

// Flags returns the raw condition bits.
func (r *Record) Flags() Flags { return r.flags }

// IsError reports whether any condition flag is raised.
func (r *Record) IsError() bool { return r.flags != 0 }

// HasOverride reports whether the latest append evicted existing data.
func (r *Record) HasOverride() bool { return r.flags&FlagOverride != 0 }
