package multiply

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/pkg/matrix"
)

// ProgressObserver receives progress notifications.
type ProgressObserver interface {
	// Update is called with the multiplier index and a progress value in
	// [0, 1]. Implementations must be safe for concurrent use.
	Update(multiplierIndex int, progress float64)
}

// ProgressSubject fans progress notifications out to registered observers.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{observers: make([]ProgressObserver, 0)}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes the first registration of observer.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify forwards one update to every observer.
func (s *ProgressSubject) Notify(multiplierIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, observer := range s.observers {
		observer.Update(multiplierIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter adapts the subject to the matrix.ProgressReporter
// callback used by the operator.
//
// Parameters:
//   - multiplierIndex: Tag attached to every notification.
//
// Returns:
//   - matrix.ProgressReporter: A callback that notifies the subject.
func (s *ProgressSubject) AsProgressReporter(multiplierIndex int) matrix.ProgressReporter {
	return func(progress float64) {
		s.Notify(multiplierIndex, progress)
	}
}

// ChannelObserver forwards updates to a channel without blocking.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to ch.
// A nil channel discards updates.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update sends the update, dropping it if the channel is full.
func (o *ChannelObserver) Update(multiplierIndex int, progress float64) {
	if o.channel == nil {
		return
	}
	if progress > 1.0 {
		progress = 1.0
	}
	select {
	case o.channel <- ProgressUpdate{MultiplierIndex: multiplierIndex, Value: progress}:
	default:
	}
}

// LoggingObserver logs progress at debug level, at most once per threshold
// step for each multiplier.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	lastLog   map[int]float64
	mu        sync.Mutex
}

// NewLoggingObserver creates a throttled logging observer.
//
// Parameters:
//   - logger: The zerolog logger to write to.
//   - threshold: Minimum progress change between two events. Defaults to 0.1.
//
// Returns:
//   - *LoggingObserver: The observer.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update logs the progress if it moved enough since the last event.
func (o *LoggingObserver) Update(multiplierIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastLog[multiplierIndex]
	if progress < 1.0 && seen && progress-last < o.threshold {
		return
	}
	o.logger.Debug().
		Int("multiplier", multiplierIndex).
		Float64("progress", progress).
		Str("percent", fmt.Sprintf("%.1f%%", progress*100)).
		Msg("multiplication progress")
	o.lastLog[multiplierIndex] = progress
}

var progressGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "matcalc_multiplication_progress",
		Help: "Current progress of running multiplications (0.0 to 1.0)",
	},
	[]string{"multiplier_index"},
)

// MetricsObserver exports progress as a Prometheus gauge.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

// NewMetricsObserver creates an observer backed by the shared gauge.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{gauge: progressGauge}
}

// Update sets the gauge for the multiplier.
func (o *MetricsObserver) Update(multiplierIndex int, progress float64) {
	o.gauge.WithLabelValues(strconv.Itoa(multiplierIndex)).Set(progress)
}

// Reset deletes the gauge series of a finished multiplier.
func (o *MetricsObserver) Reset(multiplierIndex int) {
	o.gauge.DeleteLabelValues(strconv.Itoa(multiplierIndex))
}
