// Package models defines the JSON documents served by the matcalc benchmark
// API. Matrices are never serialized: a run is identified by its shape and
// seed, and its product by summary statistics.
package models

// StrategyResult is the outcome of one strategy in a benchmark run.
type StrategyResult struct {
	Algorithm     string  `json:"algorithm"`
	Duration      string  `json:"duration"`
	DurationNanos int64   `json:"duration_ns"`
	GFLOPS        float64 `json:"gflops,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// MultiplyResponse summarizes a benchmark run over random operands.
type MultiplyResponse struct {
	Rows    int              `json:"rows"`
	Inner   int              `json:"inner"`
	Cols    int              `json:"cols"`
	Seed    int64            `json:"seed"`
	Results []StrategyResult `json:"results"`
	// Agree reports whether every successful product is within Tolerance
	// of the fastest one.
	Agree     bool    `json:"agree"`
	Tolerance float64 `json:"tolerance"`
	// MaxDifference is the largest elementwise gap to the fastest product.
	MaxDifference float64 `json:"max_difference"`
	FrobeniusNorm float64 `json:"frobenius_norm"`
}

// AlgorithmsResponse lists the registered strategies.
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
