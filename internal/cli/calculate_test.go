package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/multiply"
	"github.com/agbru/matcalc/internal/ui"
)

func TestPrintExecutionConfig(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)
	ui.SetCurrentTheme(ui.NoColorTheme)

	cfg := config.AppConfig{
		Rows: 3, Inner: 4, Cols: 5, Seed: 9,
		Timeout: time.Minute, Threshold: 32, ParallelThreshold: 128, Executor: "pool",
	}
	var buf bytes.Buffer
	PrintExecutionConfig(cfg, &buf)
	out := buf.String()
	for _, want := range []string{
		"Multiplying 3x4 by 4x5 (seed 9) with a timeout of 1m0s.",
		"logical processors",
		"Strassen base=32, parallel=128 (pool executor)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)
	ui.SetCurrentTheme(ui.NoColorTheme)

	f := multiply.NewDefaultFactory()
	all, _ := f.Select("all")
	one, _ := f.Select("strassen")

	var buf bytes.Buffer
	PrintExecutionMode(all, &buf)
	if !strings.Contains(buf.String(), "Parallel comparison of all strategies") {
		t.Errorf("comparison mode output = %q", buf.String())
	}

	buf.Reset()
	PrintExecutionMode(one, &buf)
	if !strings.Contains(buf.String(), "Single multiplication with the strassen strategy") {
		t.Errorf("single mode output = %q", buf.String())
	}
}
