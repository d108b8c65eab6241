package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteMetrics dumps every metric family of gatherer in the Prometheus text
// exposition format.
//
// Parameters:
//   - out: The output writer.
//   - gatherer: The registry to read, usually prometheus.DefaultGatherer.
//
// Returns:
//   - error: A gather or write error.
func WriteMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
