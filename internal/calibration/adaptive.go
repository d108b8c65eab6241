// Package calibration finds the Strassen base-case and parallel dispatch
// thresholds that are fastest on the current machine, and persists them as
// a profile.
package calibration

import (
	"runtime"
	"sort"

	"golang.org/x/sys/cpu"
)

// Bounds accepted for calibrated thresholds.
const (
	minThreshold         = 1
	maxThreshold         = 4096
	maxParallelThreshold = 1 << 14
)

// ─────────────────────────────────────────────────────────────────────────────
// CPU Features
// ─────────────────────────────────────────────────────────────────────────────

// CPUFeatures lists the vector extensions reported by the CPU that matter for
// the naive kernel's inner loop. The list is stable across calls.
func CPUFeatures() []string {
	var features []string
	add := func(name string, present bool) {
		if present {
			features = append(features, name)
		}
	}
	add("avx", cpu.X86.HasAVX)
	add("avx2", cpu.X86.HasAVX2)
	add("fma", cpu.X86.HasFMA)
	add("avx512f", cpu.X86.HasAVX512F)
	add("asimd", cpu.ARM64.HasASIMD)
	add("sve", cpu.ARM64.HasSVE)
	return features
}

// hasWideVectors reports whether the CPU has 256-bit or wider vector units.
func hasWideVectors() bool {
	return cpu.X86.HasAVX2 || cpu.X86.HasAVX512F || cpu.ARM64.HasSVE
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidate Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateThresholds returns the Strassen base-case sizes tried by a full
// calibration. Wide vector units make the naive kernel faster, so larger
// leaves are included for them.
func GenerateThresholds() []int {
	thresholds := []int{16, 32, 64, 128}
	if hasWideVectors() {
		thresholds = append(thresholds, 256)
	}
	return thresholds
}

// GenerateQuickThresholds returns a reduced candidate set for startup
// auto-calibration.
func GenerateQuickThresholds() []int {
	return []int{32, 64, 128}
}

// GenerateParallelThresholds returns the parallel dispatch thresholds tried by
// a full calibration. 0 (sequential) is always first; a single-core machine
// only tries 0.
func GenerateParallelThresholds() []int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU == 1:
		return []int{0}
	case numCPU <= 4:
		return []int{0, 128, 256}
	default:
		return []int{0, 64, 128, 256}
	}
}

// GenerateQuickParallelThresholds returns a reduced parallel candidate set.
func GenerateQuickParallelThresholds() []int {
	if runtime.NumCPU() == 1 {
		return []int{0}
	}
	return []int{0, 128}
}

// ─────────────────────────────────────────────────────────────────────────────
// Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalThreshold guesses the base-case size from the CPU features.
func EstimateOptimalThreshold() int {
	if hasWideVectors() {
		return 128
	}
	return 64
}

// EstimateOptimalParallelThreshold guesses the parallel dispatch threshold
// from the core count.
func EstimateOptimalParallelThreshold() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU == 1:
		return 0
	case numCPU <= 4:
		return 256
	default:
		return 128
	}
}

// EstimatedThresholds returns both heuristic estimates.
func EstimatedThresholds() (threshold, parallel int) {
	return EstimateOptimalThreshold(), EstimateOptimalParallelThreshold()
}

// ValidateThresholds clamps thresholds into their accepted ranges.
//
// Parameters:
//   - threshold: The Strassen base-case size.
//   - parallel: The parallel dispatch threshold.
//
// Returns:
//   - int, int: The clamped values.
func ValidateThresholds(threshold, parallel int) (int, int) {
	threshold = min(max(threshold, minThreshold), maxThreshold)
	parallel = min(max(parallel, 0), maxParallelThreshold)
	return threshold, parallel
}

// ThresholdSet is a complete set of candidates to benchmark.
type ThresholdSet struct {
	Base     []int
	Parallel []int
}

// GenerateFullThresholdSet returns the candidates of a full calibration.
func GenerateFullThresholdSet() ThresholdSet {
	return ThresholdSet{Base: GenerateThresholds(), Parallel: GenerateParallelThresholds()}
}

// GenerateQuickThresholdSet returns the candidates of a quick calibration.
func GenerateQuickThresholdSet() ThresholdSet {
	return ThresholdSet{Base: GenerateQuickThresholds(), Parallel: GenerateQuickParallelThresholds()}
}

// SortThresholds sorts both candidate lists in ascending order.
func (t *ThresholdSet) SortThresholds() {
	sort.Ints(t.Base)
	sort.Ints(t.Parallel)
}
