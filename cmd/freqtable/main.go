// Command freqtable generates the 768-byte frequency-to-bar lookup used by
// the spectrum bars of the SID players.
//
// Usage:
//
//	freqtable [flags]
//
// Examples:
//
//	freqtable
//	freqtable -preset b -o FreqTable.bin
//	freqtable -min '$0100' -scheme b -dump
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"freqtable/band"
	"freqtable/logging"
	"freqtable/pipeline"
)

// freqValue accepts $hex, 0xhex or decimal.
type freqValue struct{ v *int }

func (f freqValue) String() string {
	if f.v == nil {
		return ""
	}
	return fmt.Sprintf("$%04X", *f.v)
}

func (f freqValue) Set(s string) error {
	n, err := parseFreq(s)
	if err != nil {
		return err
	}
	*f.v = n
	return nil
}

func parseFreq(s string) (int, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "$"); ok {
		s = "0x" + rest
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad frequency %q", s)
	}
	return int(n), nil
}

type options struct {
	preset   string
	min, max int
	bars     int
	scheme   string
	output   string
	strict   bool
	verify   bool
	dump     bool
	logLevel string
}

func parseArgs(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("freqtable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.preset, "preset", "a", "player configuration: a ($0080, scheme a) or b ($0100, scheme b)")
	fs.Var(freqValue{&o.min}, "min", "lowest geometric bound ($hex, 0xhex or decimal)")
	fs.Var(freqValue{&o.max}, "max", "upper geometric bound")
	fs.IntVar(&o.bars, "bars", 0, "number of bars")
	fs.StringVar(&o.scheme, "scheme", "", "index encoding: a or b")
	fs.StringVar(&o.output, "o", "", "output file (default "+pipeline.DefaultOutput+" under the project root, else FreqTable.bin)")
	fs.BoolVar(&o.strict, "strict", false, "fail when a frequency matches no bar")
	fs.BoolVar(&o.verify, "verify", true, "check the table against the emulated player lookup")
	fs.BoolVar(&o.dump, "dump", false, "print thresholds and tables")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if fs.NArg() > 0 {
		return o, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// buildConfig starts from the preset and applies only the flags given.
func buildConfig(o options, set map[string]bool, wd string) (pipeline.Config, error) {
	cfg, err := pipeline.Preset(o.preset)
	if err != nil {
		return cfg, err
	}
	if set["min"] {
		cfg.MinFreq = o.min
	}
	if set["max"] {
		cfg.MaxFreq = o.max
	}
	if set["bars"] {
		cfg.NumBars = o.bars
	}
	if set["scheme"] {
		s, err := band.SchemeByName(o.scheme)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
		}
		cfg.Scheme = s
	}
	cfg.Strict = o.strict
	cfg.Verify = o.verify

	cfg.OutputPath = o.output
	if cfg.OutputPath == "" {
		if root, ok := pipeline.FindProjectRoot(wd); ok {
			cfg.ProjectRoot = root
			cfg.OutputPath = cfg.ProjectPath(pipeline.DefaultOutput)
		} else {
			cfg.OutputPath = "FreqTable.bin"
		}
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, set, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	log, err := logging.New(logging.WithLevel(o.logLevel))
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := buildConfig(o, set, wd)
	if err != nil {
		log.Error("configuration", zap.Error(err))
		return 1
	}

	log.Info("generating",
		zap.String("scheme", cfg.Scheme.Name),
		zap.String("min", fmt.Sprintf("$%04X", cfg.MinFreq)),
		zap.String("max", fmt.Sprintf("$%04X", cfg.MaxFreq)),
		zap.Int("bars", cfg.NumBars))

	res, err := pipeline.Run(cfg, log)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return 1
	}

	if o.dump {
		if err := pipeline.Dump(stdout, cfg, res); err != nil {
			log.Error("dump", zap.Error(err))
			return 1
		}
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
