package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"freqtable/band"
	"freqtable/threshold"
)

var (
	ErrConfig   = errors.New("invalid configuration")
	ErrFallback = errors.New("frequency resolved to no bar")
	ErrVerify   = errors.New("table verification failed")
)

// MaxBars keeps every bar index inside one table byte.
const MaxBars = 256

// DefaultOutput is where the player build expects the table.
const DefaultOutput = "SIDPlayers/INC/FreqTable.bin"

type Config struct {
	MinFreq int
	MaxFreq int
	NumBars int
	Scheme  band.Scheme

	OutputPath  string
	ProjectRoot string

	Strict bool // treat a bar 0 fallback as an error
	Verify bool // run the emulated player lookup before writing
}

// Preset returns one of the two shipped player configurations.
func Preset(name string) (Config, error) {
	cfg := Config{
		MaxFreq: threshold.MaxFreq,
		NumBars: threshold.DefaultBars,
		Verify:  true,
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a":
		cfg.MinFreq = 0x0080
		cfg.Scheme = band.VariantA
	case "b":
		cfg.MinFreq = 0x0100
		cfg.Scheme = band.VariantB
	default:
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrConfig, name)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MinFreq < 1 || c.MinFreq > threshold.MaxFreq {
		return fmt.Errorf("%w: min freq $%04X outside $0001..$FFFF", ErrConfig, c.MinFreq)
	}
	if c.MaxFreq < 1 || c.MaxFreq > threshold.MaxFreq {
		return fmt.Errorf("%w: max freq $%04X outside $0001..$FFFF", ErrConfig, c.MaxFreq)
	}
	if c.MinFreq >= c.MaxFreq {
		return fmt.Errorf("%w: min freq $%04X not below max $%04X", ErrConfig, c.MinFreq, c.MaxFreq)
	}
	if c.NumBars < 1 || c.NumBars > MaxBars {
		return fmt.Errorf("%w: %d bars outside 1..%d", ErrConfig, c.NumBars, MaxBars)
	}
	if err := c.Scheme.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

func (c Config) ProjectPath(rel string) string {
	root := c.ProjectRoot
	if root == "" {
		root = "."
	}
	return filepath.Join(root, rel)
}

// FindProjectRoot walks up from dir looking for the player include directory.
func FindProjectRoot(dir string) (string, bool) {
	for d := dir; ; d = filepath.Dir(d) {
		if info, err := os.Stat(filepath.Join(d, filepath.Dir(DefaultOutput))); err == nil && info.IsDir() {
			return d, true
		}
		if parent := filepath.Dir(d); parent == d {
			return "", false
		}
	}
}
