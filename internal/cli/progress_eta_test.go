package cli

import (
	"strings"
	"testing"
	"time"
)

func TestNewProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(3)
	if p.numMultipliers != 3 {
		t.Errorf("numMultipliers = %d, want 3", p.numMultipliers)
	}
	if p.GetETA() != 0 {
		t.Errorf("initial ETA = %v, want 0", p.GetETA())
	}
}

func TestUpdateWithETA_EarlyUpdatesHaveNoETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	progress, eta := p.UpdateWithETA(0, 0.5)
	if progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", progress)
	}
	if eta != 0 {
		t.Errorf("eta within the warm-up window = %v, want 0", eta)
	}
}

func TestUpdateWithETA_EstimatesRemainingTime(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	p.startTime = time.Now().Add(-10 * time.Second)
	p.lastUpdate = p.startTime

	progress, eta := p.UpdateWithETA(0, 0.5)
	if progress != 0.5 {
		t.Fatalf("progress = %v, want 0.5", progress)
	}
	// Half done in ten seconds: about ten seconds remain.
	if eta < 9*time.Second || eta > 11*time.Second {
		t.Errorf("eta = %v, want about 10s", eta)
	}

	if _, eta := p.UpdateWithETA(0, 1.0); eta != 0 {
		t.Errorf("eta when complete = %v, want 0", eta)
	}
}

func TestUpdateWithETA_InvalidIndex(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)
	p.UpdateWithETA(5, 0.5)
	p.UpdateWithETA(-1, 0.5)
	if got := p.CalculateAverage(); got != 0 {
		t.Errorf("average = %v, want 0", got)
	}
}

func TestGetETA_Capped(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	p.Update(0, 0.001)
	p.progressRate = 1e-9
	if eta := p.GetETA(); eta != maxETA {
		t.Errorf("ETA = %v, want %v", eta, maxETA)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.25, 42*time.Second, 4)
	want := " 25.00% [█░░░] ETA: 42s"
	if got != want {
		t.Errorf("FormatProgressBarWithETA = %q, want %q", got, want)
	}
	if !strings.Contains(FormatProgressBarWithETA(0, 0, 4), "calculating...") {
		t.Error("zero ETA should render as calculating...")
	}
}
