package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"freqtable/band"
	"freqtable/serialize"
	"freqtable/threshold"
	"freqtable/validate"
)

type Result struct {
	Thresholds threshold.Table
	Tables     band.Tables
	Blob       []byte
	Fallbacks  []band.Fallback
	Consumer   *validate.Result
	OutputPath string
}

// Generate computes the blob without touching the filesystem.
func Generate(cfg Config, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	th, err := threshold.Generate(cfg.MinFreq, cfg.MaxFreq, cfg.NumBars)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	log.Debug("thresholds",
		zap.Int("bars", th.NumBars()),
		zap.Uint16("first", th[1]),
		zap.Uint16("top", th.Top()))

	tables, fallbacks := band.Build(th, cfg.Scheme, log)
	if len(fallbacks) > 0 {
		log.Warn("frequencies defaulted to bar 0",
			zap.Int("count", len(fallbacks)),
			zap.String("scheme", cfg.Scheme.Name))
		if cfg.Strict {
			f := fallbacks[0]
			return Result{}, fmt.Errorf("%w: %d entries, first %s[%d] freq $%04X above top $%04X",
				ErrFallback, len(fallbacks), band.RangeName(f.Range), f.Index, f.Freq, th.Top())
		}
	}

	return Result{
		Thresholds: th,
		Tables:     tables,
		Blob:       serialize.Serialize(tables),
		Fallbacks:  fallbacks,
	}, nil
}

// Verify checks the blob layout and, when requested, replays every
// frequency through the emulated player lookup.
func Verify(cfg Config, res *Result, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := validate.Blob(res.Blob, cfg.Scheme, cfg.NumBars); err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if !cfg.Verify {
		return nil
	}

	cr, err := validate.Consumer(res.Blob, cfg.Scheme)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	res.Consumer = &cr
	if !cr.Passed {
		return fmt.Errorf("%w: player lookup of $%04X read bar %d, expected %d",
			ErrVerify, cr.FirstMismatch, cr.Got, cr.Want)
	}
	log.Info("player lookup verified", zap.Int("frequencies", cr.Checked))
	return nil
}

// Run generates, verifies and writes the table. Nothing is written unless
// every earlier step succeeded.
func Run(cfg Config, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.OutputPath == "" {
		return Result{}, fmt.Errorf("%w: no output path", ErrConfig)
	}

	res, err := Generate(cfg, log)
	if err != nil {
		return Result{}, err
	}
	if err := Verify(cfg, &res, log); err != nil {
		return res, err
	}
	if err := Write(cfg.OutputPath, res.Blob, log); err != nil {
		return res, err
	}
	res.OutputPath = cfg.OutputPath
	return res, nil
}
