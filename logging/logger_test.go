package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := New(WithLevel("warn"), WithOutput(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("hidden")
	log.Warn("fallback", zap.Int("index", 7))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("info entry logged at warn level")
	}
	if !strings.Contains(out, "fallback") || !strings.Contains(out, `"index"`) {
		t.Errorf("warn entry missing: %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("level not capitalized: %q", out)
	}
}

func TestNewDefaultLevel(t *testing.T) {
	log, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if !log.Core().Enabled(zapcore.InfoLevel) || log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default level should be info")
	}
}
