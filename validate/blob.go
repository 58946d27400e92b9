package validate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"freqtable/band"
	"freqtable/serialize"
)

var ErrBlob = errors.New("malformed table blob")

// Blob checks what the player relies on: the fixed size, bar indices below
// bars wherever the scheme addresses, zeros wherever it does not.
func Blob(blob []byte, s band.Scheme, bars int) error {
	tables, err := serialize.Split(blob)
	if err != nil {
		return err
	}
	for rng, r := range s.Ranges {
		for idx, bar := range tables[rng] {
			off := rng*band.TableSize + idx
			if idx >= r.Count {
				if bar != 0 {
					return fmt.Errorf("%w: unused %s[%d] (offset $%03X) = %d", ErrBlob, band.RangeName(rng), idx, off, bar)
				}
				continue
			}
			if int(bar) >= bars {
				return fmt.Errorf("%w: %s[%d] (offset $%03X) = %d, only %d bars", ErrBlob, band.RangeName(rng), idx, off, bar, bars)
			}
		}
	}
	return nil
}

// Coverage returns, per bar, the share of the 16-bit frequency space the
// player maps onto it.
func Coverage(blob []byte, s band.Scheme, bars int) []float64 {
	share := make([]float64, bars)
	for f := 0; f <= 0xFFFF; f++ {
		if bar := int(band.Lookup(blob, s, uint16(f))); bar < bars {
			share[bar]++
		}
	}
	floats.Scale(1.0/0x10000, share)
	return share
}

// Widest reports the bar covering the largest share.
func Widest(share []float64) (bar int, frac float64) {
	if len(share) == 0 {
		return -1, 0
	}
	bar = floats.MaxIdx(share)
	return bar, share[bar]
}
