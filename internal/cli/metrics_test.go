package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestWriteMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matcalc_test_events_total",
		Help: "Events seen by the test.",
	})
	reg.MustRegister(counter)
	counter.Add(3)

	var buf bytes.Buffer
	if err := WriteMetrics(&buf, reg); err != nil {
		t.Fatalf("WriteMetrics: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# HELP matcalc_test_events_total Events seen by the test.",
		"# TYPE matcalc_test_events_total counter",
		"matcalc_test_events_total 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

type failingGatherer struct{}

func (failingGatherer) Gather() ([]*dto.MetricFamily, error) {
	return nil, errors.New("boom")
}

func TestWriteMetrics_GatherError(t *testing.T) {
	t.Parallel()
	err := WriteMetrics(&bytes.Buffer{}, failingGatherer{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("WriteMetrics error = %v, want the gather error", err)
	}
}
