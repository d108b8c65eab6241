package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestLevelLoggerFiltersAndFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewLevelLogger(&buf, zerolog.InfoLevel)

	l.Debug("dropped")
	l.Info("kept",
		String("algo", "strassen"),
		Int("padded", 64),
		Float64("ratio", 0.5),
		Bool("parallel", true),
		Duration("elapsed", time.Second),
	)
	l.Error("failed", errors.New("boom"), Int("size", 8))

	events := decodeLines(t, &buf)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %s", len(events), buf.String())
	}
	info := events[0]
	if info["message"] != "kept" || info["algo"] != "strassen" || info["padded"] != float64(64) {
		t.Errorf("unexpected info event: %v", info)
	}
	if info["parallel"] != true {
		t.Errorf("bool field not encoded: %v", info)
	}
	if events[1]["error"] != "boom" || events[1]["level"] != "error" {
		t.Errorf("unexpected error event: %v", events[1])
	}
}

func TestNopLoggerWritesNothing(t *testing.T) {
	t.Parallel()
	l := NewNopLogger()
	l.Info("x")
	l.Debug("y")
	l.Error("z", errors.New("e"))
	l.Printf("%d", 1)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.NoLevel, true},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerologAccessorSharesOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewLevelLogger(&buf, zerolog.DebugLevel)
	zl := l.Zerolog()
	zl.Debug().Int("step", 3).Msg("direct")

	events := decodeLines(t, &buf)
	if len(events) != 1 || events[0]["message"] != "direct" || events[0]["component"] != "matcalc" {
		t.Errorf("unexpected events: %v", events)
	}
}
