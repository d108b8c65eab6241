package matrix

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation sites tracked by the buffer allocation counter.
const (
	allocElementwise = "elementwise"
	allocMerge       = "merge"
	allocMaterialize = "materialize"
	allocNaive       = "naive"
)

// Algorithm labels used in metrics and logs.
const (
	AlgorithmNaive    = "naive"
	AlgorithmStrassen = "strassen"
)

var (
	multiplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matrix_multiplications_total",
			Help: "The total number of top-level matrix multiplications processed",
		},
		[]string{"algorithm", "status"},
	)
	multiplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matrix_multiplication_duration_seconds",
			Help:    "The duration of top-level matrix multiplications in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		},
		[]string{"algorithm"},
	)
	bufferAllocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matrix_buffer_allocations_total",
			Help: "The number of result buffers allocated, by allocation site",
		},
		[]string{"site"},
	)
	strassenLeaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matrix_strassen_base_cases_total",
		Help: "The number of Strassen recursion leaves solved with the naive kernel",
	})
)

func recordAllocation(site string) {
	bufferAllocations.WithLabelValues(site).Inc()
}

func recordMultiplication(algorithm string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	multiplicationsTotal.WithLabelValues(algorithm, status).Inc()
	multiplicationDuration.WithLabelValues(algorithm).Observe(seconds)
}
