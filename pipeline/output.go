package pipeline

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"freqtable/band"
	"freqtable/serialize"
	"freqtable/validate"
)

// Write stores blob atomically at path.
func Write(path string, blob []byte, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := serialize.WriteFile(path, blob); err != nil {
		return err
	}
	log.Info("wrote table", zap.String("path", path), zap.Int("bytes", len(blob)))
	return nil
}

// Dump prints the thresholds, per-bar coverage and the three tables.
func Dump(w io.Writer, cfg Config, res Result) error {
	fmt.Fprintf(w, "Scheme %s, bars %d, $%04X..$%04X\n\n", cfg.Scheme.Name, cfg.NumBars, cfg.MinFreq, cfg.MaxFreq)

	share := validate.Coverage(res.Blob, cfg.Scheme, cfg.NumBars)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "bar\tfrom\tto\tshare\t")
	for bar := 0; bar < res.Thresholds.NumBars(); bar++ {
		fmt.Fprintf(tw, "%d\t$%04X\t$%04X\t%.2f%%\t\n",
			bar, res.Thresholds[bar], res.Thresholds[bar+1], share[bar]*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if bar, frac := validate.Widest(share); bar >= 0 {
		fmt.Fprintf(w, "widest: bar %d (%.2f%%)\n", bar, frac*100)
	}

	for rng := range res.Tables {
		fmt.Fprintf(w, "\n%s ($%03X):\n", band.RangeName(rng), rng*band.TableSize)
		for row := 0; row < band.TableSize; row += 16 {
			var sb strings.Builder
			for _, b := range res.Tables[rng][row : row+16] {
				fmt.Fprintf(&sb, " %02X", b)
			}
			fmt.Fprintf(w, "  %02X:%s\n", row, sb.String())
		}
	}
	return nil
}
