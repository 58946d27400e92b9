package band

import (
	"go.uber.org/zap"

	"freqtable/threshold"
)

type Table [TableSize]byte

// Tables are ordered Lo, Mid, Hi.
type Tables [NumRanges]Table

// Fallback records an index whose frequency matched no bar and was
// defaulted to bar 0 instead of being clamped.
type Fallback struct {
	Range int
	Index int
	Freq  uint16
}

// Resolve scans bars in order for the interval holding freq. The second
// result is false when no bar matched and the answer is the bar 0 default.
func Resolve(t threshold.Table, freq uint16, clamp bool) (byte, bool) {
	bars := t.NumBars()
	for bar := 0; bar < bars; bar++ {
		if freq >= t[bar] && freq < t[bar+1] {
			return byte(bar), true
		}
	}
	if clamp && freq >= t[bars] {
		return byte(bars - 1), true
	}
	return 0, false
}

// Build fills one table per range. Entries past a range's Count are left zero.
func Build(t threshold.Table, s Scheme, log *zap.Logger) (Tables, []Fallback) {
	if log == nil {
		log = zap.NewNop()
	}

	var out Tables
	var fallbacks []Fallback
	for rng, r := range s.Ranges {
		for idx := 0; idx < r.Count; idx++ {
			freq := r.Representative(idx)
			bar, ok := Resolve(t, freq, r.Clamp)
			if !ok {
				fallbacks = append(fallbacks, Fallback{Range: rng, Index: idx, Freq: freq})
				log.Warn("no bar for frequency, using bar 0",
					zap.String("range", rangeNames[rng]),
					zap.Int("index", idx),
					zap.Uint16("freq", freq),
					zap.Uint16("top", t.Top()))
			}
			out[rng][idx] = bar
		}
	}
	return out, fallbacks
}
