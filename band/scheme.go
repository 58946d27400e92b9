package band

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Lo = iota
	Mid
	Hi
	NumRanges
)

const TableSize = 256

var ErrInvalidScheme = errors.New("invalid encoding scheme")

var rangeNames = [NumRanges]string{"lo", "mid", "hi"}

func RangeName(r int) string { return rangeNames[r] }

// Range describes how the player turns a table index into a frequency.
type Range struct {
	Base  int  // frequency addressed by index 0
	Shift uint // log2 of frequencies per index
	Count int  // indices the player can address; the rest stay zero
	Clamp bool // at or above the top threshold means the last bar
}

// Representative is the midpoint of the frequencies that share idx.
func (r Range) Representative(idx int) uint16 {
	return uint16(r.Base + idx<<r.Shift + (1<<r.Shift)/2)
}

// End is one past the last frequency the range addresses.
func (r Range) End() int { return r.Base + r.Count<<r.Shift }

type Scheme struct {
	Name   string
	Ranges [NumRanges]Range
}

var (
	// VariantA splits lo/mid at $1000 and gives mid 32-unit steps up to $2FFF.
	VariantA = Scheme{
		Name: "a",
		Ranges: [NumRanges]Range{
			Lo:  {Base: 0x0000, Shift: 4, Count: 256},
			Mid: {Base: 0x1000, Shift: 5, Count: 256},
			Hi:  {Base: 0x0000, Shift: 8, Count: 256, Clamp: true},
		},
	}

	// VariantB halves the mid resolution and addresses $1000-$3FFF with 192 entries.
	VariantB = Scheme{
		Name: "b",
		Ranges: [NumRanges]Range{
			Lo:  {Base: 0x0000, Shift: 4, Count: 256},
			Mid: {Base: 0x1000, Shift: 6, Count: 192},
			Hi:  {Base: 0x0000, Shift: 8, Count: 256, Clamp: true},
		},
	}
)

func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a":
		return VariantA, nil
	case "b":
		return VariantB, nil
	}
	return Scheme{}, fmt.Errorf("%w: unknown scheme %q", ErrInvalidScheme, name)
}

func (s Scheme) Validate() error {
	for i, r := range s.Ranges {
		switch {
		case r.Count < 1 || r.Count > TableSize:
			return fmt.Errorf("%w: %s range has %d entries", ErrInvalidScheme, rangeNames[i], r.Count)
		case r.Shift > 8:
			return fmt.Errorf("%w: %s range shift %d", ErrInvalidScheme, rangeNames[i], r.Shift)
		case r.Base < 0 || r.End() > 0x10000:
			return fmt.Errorf("%w: %s range $%04X..$%X leaves 16 bits", ErrInvalidScheme, rangeNames[i], r.Base, r.End())
		}
	}
	return nil
}

// Select mirrors the player's addressing: lo and mid claim the frequencies
// they span, in that order, and hi takes everything else.
func (s Scheme) Select(freq uint16) (rng, idx int) {
	f := int(freq)
	for rng = Lo; rng < Hi; rng++ {
		r := s.Ranges[rng]
		if f >= r.Base && f < r.End() {
			return rng, (f - r.Base) >> r.Shift
		}
	}
	r := s.Ranges[Hi]
	off := (f - r.Base) & 0xFFFF
	return Hi, (off >> r.Shift) & 0xFF
}

// Lookup reads the bar for freq from a serialized blob.
func Lookup(blob []byte, s Scheme, freq uint16) byte {
	rng, idx := s.Select(freq)
	return blob[rng*TableSize+idx]
}
