package threshold

import (
	"errors"
	"fmt"
	"math"
)

const (
	MaxFreq = 0xFFFF

	DefaultMinFreq = 0x0080
	DefaultBars    = 40
)

var ErrInvalidRange = errors.New("invalid threshold range")

// Table holds NumBars+1 boundaries. Bar b covers [t[b], t[b+1]).
type Table []uint16

func (t Table) NumBars() int { return len(t) - 1 }

func (t Table) Top() uint16 { return t[len(t)-1] }

// Generate spaces the boundaries geometrically from minFreq to maxFreq.
// t[0] is forced to zero so anything below minFreq lands in bar 0.
func Generate(minFreq, maxFreq, bars int) (Table, error) {
	if minFreq < 1 || maxFreq > MaxFreq {
		return nil, fmt.Errorf("%w: bounds $%04X..$%04X outside $0001..$FFFF", ErrInvalidRange, minFreq, maxFreq)
	}
	if minFreq >= maxFreq {
		return nil, fmt.Errorf("%w: min $%04X not below max $%04X", ErrInvalidRange, minFreq, maxFreq)
	}
	if bars < 1 {
		return nil, fmt.Errorf("%w: %d bars", ErrInvalidRange, bars)
	}

	ratio := float64(maxFreq) / float64(minFreq)
	t := make(Table, bars+1)
	for i := 1; i <= bars; i++ {
		factor := math.Pow(ratio, float64(i)/float64(bars))
		t[i] = uint16(math.Floor(float64(minFreq)*factor + 0.5))
	}
	return t, nil
}

// FirstDecrease returns the first index breaking the zero floor or the
// non-decreasing order, or -1 when the table is well formed.
func (t Table) FirstDecrease() int {
	if len(t) == 0 || t[0] != 0 {
		return 0
	}
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return i
		}
	}
	return -1
}
