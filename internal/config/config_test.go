package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/pkg/matrix"
)

var testAlgos = []string{"naive", "strassen", "parallel"}

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("matcalc", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rows != DefaultDim || cfg.Inner != DefaultDim || cfg.Cols != DefaultDim {
		t.Errorf("unexpected default shape %dx%dx%d", cfg.Rows, cfg.Inner, cfg.Cols)
	}
	if cfg.Algo != "all" || cfg.Executor != "group" {
		t.Errorf("unexpected defaults algo=%q executor=%q", cfg.Algo, cfg.Executor)
	}
	if cfg.Threshold != matrix.DefaultThreshold {
		t.Errorf("expected threshold %d, got %d", matrix.DefaultThreshold, cfg.Threshold)
	}
	if cfg.Timeout != DefaultTimeout || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unexpected timeout %v / log level %q", cfg.Timeout, cfg.LogLevel)
	}
	if cfg.RateLimit != DefaultRateLimit {
		t.Errorf("expected rate limit %d, got %d", DefaultRateLimit, cfg.RateLimit)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-rows", "100", "-inner", "37", "-cols", "12",
		"-algo", "STRASSEN",
		"-threshold", "16",
		"-parallel-threshold", "0",
		"-executor", "pool",
		"-workers", "3",
		"-seed", "99",
		"-tolerance", "0.01",
		"-timeout", "10s",
		"-v", "-details", "-q", "-metrics",
		"-log-level", "debug",
		"-server", "-port", "9090",
		"-rate-limit", "30",
	}
	cfg, err := ParseConfig("matcalc", args, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AppConfig{
		Rows: 100, Inner: 37, Cols: 12,
		Algo:              "strassen",
		Threshold:         16,
		ParallelThreshold: 0,
		Workers:           3,
		Executor:          "pool",
		Seed:              99,
		Tolerance:         0.01,
		Timeout:           10 * time.Second,
		Verbose:           true,
		Details:           true,
		Quiet:             true,
		Metrics:           true,
		LogLevel:          "debug",
		ServerMode:        true,
		Port:              "9090",
		RateLimit:         30,
	}
	if cfg != want {
		t.Errorf("ParseConfig() =\n%+v\nwant\n%+v", cfg, want)
	}

	opts := cfg.ToOperatorOptions()
	if opts.Threshold != 16 || opts.ParallelThreshold != 0 || opts.MaxWorkers != 3 {
		t.Errorf("unexpected operator options %+v", opts)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"zero rows", []string{"-rows", "0"}, "-rows must be in"},
		{"huge cols", []string{"-cols", "100000"}, "-cols must be in"},
		{"bad algo", []string{"-algo", "winograd"}, "unrecognized algorithm"},
		{"bad executor", []string{"-executor", "threads"}, "unrecognized executor"},
		{"zero threshold", []string{"-threshold", "0"}, "Strassen threshold"},
		{"negative parallel", []string{"-parallel-threshold", "-1"}, "parallel threshold"},
		{"negative workers", []string{"-workers", "-2"}, "worker count"},
		{"negative tolerance", []string{"-tolerance", "-1"}, "tolerance"},
		{"zero timeout", []string{"-timeout", "0s"}, "timeout"},
		{"bad log level", []string{"-log-level", "loud"}, "unknown log level"},
		{"bad port", []string{"-server", "-port", "http"}, "invalid port"},
		{"negative rate limit", []string{"-rate-limit", "-1"}, "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			_, err := ParseConfig("matcalc", tt.args, &out, testAlgos)
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected a ConfigError in the chain, got %v", err)
			}
			if !strings.Contains(out.String(), tt.msg) {
				t.Errorf("output %q does not mention %q", out.String(), tt.msg)
			}
			if !strings.Contains(out.String(), "Usage:") {
				t.Error("usage must be printed after a configuration error")
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	_, err := ParseConfig("matcalc", []string{"-h"}, &out, testAlgos)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	for _, want := range []string{"Matrix Calculator", "-parallel-threshold", "MATCALC_"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("usage does not contain %q", want)
		}
	}
}

func TestParseConfigUnknownFlag(t *testing.T) {
	t.Parallel()
	if _, err := ParseConfig("matcalc", []string{"-n", "5"}, io.Discard, testAlgos); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}
