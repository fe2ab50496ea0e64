package gene

import "fmt"

// Words is the packed wire form of a record: six 64-bit words that lay the
// lanes out for little-endian serialization.
//
// Lane i at a tier of width w occupies bits [i*w*8, (i+1)*w*8) of Primary
// and Secondary; its dominance bytes sit at bits [i*8, (i+1)*8) of
// DomPrimary and DomSecondary. Meta carries the tier width in its low byte
// and the lane count in the next, since the packed words alone cannot
// distinguish, say, one 16-bit lane from two 8-bit lanes.
type Words struct {
	Meta         uint64
	Header       uint64
	Primary      uint64
	Secondary    uint64
	DomPrimary   uint64
	DomSecondary uint64
}

// WordCount is the number of 64-bit words in the wire form of one record.
const WordCount = 6

// Words packs the record. Condition flags are in-memory state and are not
// represented.
func (r *Record) Words() Words {
	w := Words{Header: r.header}
	if r.count == 0 {
		return w
	}
	w.Meta = uint64(r.tier) | uint64(r.count)<<8
	width := uint(r.tier.LaneBytes())
	for i := 0; i < r.count; i++ {
		lane := r.lanes[i]
		shift := uint(i) * width * 8
		w.Primary |= lane.Primary << shift
		w.Secondary |= lane.Secondary << shift
		w.DomPrimary |= uint64(lane.DomPrimary) << (uint(i) * 8)
		w.DomSecondary |= uint64(lane.DomSecondary) << (uint(i) * 8)
	}
	return w
}

// A WordWriter accepts 64-bit words into consecutive aligned slots. A 64-bit
// strand view satisfies it.
type WordWriter interface {
	Append(value uint64) (int, error)
}

// A WordReader yields 64-bit words from aligned slots. A 64-bit strand view
// satisfies it.
type WordReader interface {
	At(slot int) (uint64, error)
}

// AppendTo writes the six words of the wire form through view in declaration
// order and returns the slot of the first word.
func (w Words) AppendTo(view WordWriter) (int, error) {
	first := -1
	for i, word := range w.list() {
		slot, err := view.Append(word)
		if err != nil {
			return 0, fmt.Errorf("gene: append word %d: %w", i, err)
		}
		if first < 0 {
			first = slot
		}
	}
	return first, nil
}

// ReadWordsAt reads back a wire form written by AppendTo at slot.
func ReadWordsAt(view WordReader, slot int) (Words, error) {
	var list [WordCount]uint64
	for i := range list {
		word, err := view.At(slot + i)
		if err != nil {
			return Words{}, fmt.Errorf("gene: read word %d: %w", i, err)
		}
		list[i] = word
	}
	return Words{
		Meta:         list[0],
		Header:       list[1],
		Primary:      list[2],
		Secondary:    list[3],
		DomPrimary:   list[4],
		DomSecondary: list[5],
	}, nil
}

func (w Words) list() [WordCount]uint64 {
	return [WordCount]uint64{
		w.Meta, w.Header, w.Primary, w.Secondary, w.DomPrimary, w.DomSecondary,
	}
}

// FromWords unpacks a wire form produced by Words. The meta word is
// validated strictly: an unknown tier, a lane count beyond the tier's
// capacity, or stray high bits all fail with ErrMalformedWords. The unpacked
// record raises no condition flags.
func FromWords(w Words) (*Record, error) {
	if w.Meta>>16 != 0 {
		return nil, fmt.Errorf("gene: meta high bits %#x: %w", w.Meta, ErrMalformedWords)
	}
	tier := Tier(w.Meta)
	count := int(w.Meta >> 8 & 0xFF)
	r := &Record{header: w.Header}
	if count == 0 {
		if tier != 0 {
			return nil, fmt.Errorf("gene: meta tier %d with no lanes: %w", uint8(tier), ErrMalformedWords)
		}
		return r, nil
	}
	if !tier.valid() {
		return nil, fmt.Errorf("gene: meta tier %d: %w", uint8(tier), ErrMalformedWords)
	}
	if count > tier.Lanes() {
		return nil, fmt.Errorf("gene: meta count %d exceeds %d %s lanes: %w",
			count, tier.Lanes(), tier, ErrMalformedWords)
	}

	r.tier = tier
	r.count = count
	width := uint(tier.LaneBytes())
	mask := tier.Max()
	for i := 0; i < count; i++ {
		shift := uint(i) * width * 8
		r.lanes[i] = Pair{
			Primary:      w.Primary >> shift & mask,
			Secondary:    w.Secondary >> shift & mask,
			DomPrimary:   byte(w.DomPrimary >> (uint(i) * 8)),
			DomSecondary: byte(w.DomSecondary >> (uint(i) * 8)),
		}
	}
	return r, nil
}
