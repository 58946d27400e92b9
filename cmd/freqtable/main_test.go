package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"freqtable/pipeline"
)

func TestParseFreq(t *testing.T) {
	cases := map[string]int{
		"$0080":  0x80,
		"0x0100": 0x100,
		"65535":  0xFFFF,
		" $FFFF": 0xFFFF,
	}
	for in, want := range cases {
		got, err := parseFreq(in)
		if err != nil || got != want {
			t.Errorf("parseFreq(%q) = %d, %v, want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "$", "abc", "-1"} {
		if _, err := parseFreq(in); err == nil {
			t.Errorf("parseFreq(%q) accepted", in)
		}
	}
}

func TestBuildConfigOverridesPreset(t *testing.T) {
	o, set, err := parseArgs([]string{"-preset", "a", "-min", "$0100", "-scheme", "b", "-bars", "32", "-o", "out.bin"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := buildConfig(o, set, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinFreq != 0x100 || cfg.MaxFreq != 0xFFFF || cfg.NumBars != 32 {
		t.Errorf("bounds = $%04X..$%04X bars %d", cfg.MinFreq, cfg.MaxFreq, cfg.NumBars)
	}
	if cfg.Scheme.Name != "b" {
		t.Errorf("scheme = %q, want b", cfg.Scheme.Name)
	}
	if cfg.OutputPath != "out.bin" || !cfg.Verify {
		t.Errorf("output %q verify %v", cfg.OutputPath, cfg.Verify)
	}
}

func TestBuildConfigPresetDefaults(t *testing.T) {
	o, set, err := parseArgs([]string{"-preset", "b"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := buildConfig(o, set, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinFreq != 0x100 || cfg.NumBars != 40 || cfg.Scheme.Name != "b" {
		t.Errorf("preset b = %+v", cfg)
	}
	if cfg.OutputPath != "FreqTable.bin" {
		t.Errorf("OutputPath = %q, want FreqTable.bin", cfg.OutputPath)
	}
}

func TestBuildConfigFindsProject(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "SIDPlayers", "INC"), 0755); err != nil {
		t.Fatal(err)
	}
	o, set, _ := parseArgs(nil, io.Discard)
	cfg, err := buildConfig(o, set, root)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, pipeline.DefaultOutput); cfg.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", cfg.OutputPath, want)
	}
}

func TestBuildConfigErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-preset", "z"},
		{"-scheme", "q"},
	} {
		o, set, err := parseArgs(args, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(o, set, t.TempDir()); !errors.Is(err, pipeline.ErrConfig) {
			t.Errorf("%v: err = %v, want ErrConfig", args, err)
		}
	}
	if _, _, err := parseArgs([]string{"-min", "zz"}, io.Discard); err == nil {
		t.Error("bad -min accepted")
	}
	if _, _, err := parseArgs([]string{"extra"}, io.Discard); err == nil {
		t.Error("positional argument accepted")
	}
}

func TestRunWritesAndDumps(t *testing.T) {
	out := filepath.Join(t.TempDir(), "FreqTable.bin")
	var stdout bytes.Buffer
	code := run([]string{"-preset", "b", "-o", out, "-dump", "-log-level", "error"}, &stdout, io.Discard)
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 768 {
		t.Errorf("wrote %d bytes, want 768", len(data))
	}
	if !strings.Contains(stdout.String(), "Scheme b, bars 40") {
		t.Errorf("dump header missing: %q", stdout.String())
	}
}

func TestRunConfigErrorExitCode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "FreqTable.bin")
	if code := run([]string{"-min", "$FFFF", "-o", out, "-log-level", "error"}, io.Discard, io.Discard); code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output written despite config error: %v", err)
	}
}
