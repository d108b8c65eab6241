package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// CurrentProfileVersion is the version of the profile format.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the file name of the default profile.
	DefaultProfileFileName = ".matcalc_calibration.json"
)

// CalibrationProfile stores the result of a calibration run together with
// the hardware it was measured on, so that stale or foreign profiles can be
// rejected.
type CalibrationProfile struct {
	// RunID identifies the calibration run that produced the profile.
	RunID string `json:"run_id"`

	CPUModel    string   `json:"cpu_model"`
	CPUFeatures []string `json:"cpu_features"`
	NumCPU      int      `json:"num_cpu"`
	GOARCH      string   `json:"goarch"`
	GOOS        string   `json:"goos"`
	GoVersion   string   `json:"go_version"`

	OptimalThreshold         int `json:"optimal_threshold"`
	OptimalParallelThreshold int `json:"optimal_parallel_threshold"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationSize int       `json:"calibration_size"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or in the current directory if the home is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// resolvePath maps an empty path to the default profile path.
func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile creates a profile describing the current hardware, with a
// fresh run ID and heuristic thresholds.
func NewProfile() *CalibrationProfile {
	threshold, parallel := EstimatedThresholds()
	return &CalibrationProfile{
		RunID:                    uuid.NewString(),
		CPUModel:                 fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU()),
		CPUFeatures:              CPUFeatures(),
		NumCPU:                   runtime.NumCPU(),
		GOARCH:                   runtime.GOARCH,
		GOOS:                     runtime.GOOS,
		GoVersion:                runtime.Version(),
		OptimalThreshold:         threshold,
		OptimalParallelThreshold: parallel,
		CalibratedAt:             time.Now(),
		ProfileVersion:           CurrentProfileVersion,
	}
}

// LoadProfile reads a profile from path, or from the default path if path
// is empty.
//
// Returns:
//   - *CalibrationProfile: The decoded profile.
//   - error: If the file cannot be read or parsed.
func LoadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes the profile as indented JSON to path, or to the
// default path if path is empty.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolvePath(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was produced by this profile format
// on hardware identical to the current machine.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil || p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH {
		return false
	}
	if !slices.Equal(p.CPUFeatures, CPUFeatures()) {
		return false
	}
	return p.OptimalThreshold >= minThreshold
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a one-line summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	features := "none"
	if len(p.CPUFeatures) > 0 {
		features = strings.Join(p.CPUFeatures, ",")
	}
	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s [%s], Threshold: %d, Parallel: %d, Calibrated: %s}",
		p.CPUModel, features, p.OptimalThreshold, p.OptimalParallelThreshold,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// LoadOrCreateProfile loads the profile at path. If it is missing or
// invalid for this machine, a fresh profile is returned instead.
//
// Returns:
//   - *CalibrationProfile: The loaded or new profile.
//   - bool: True if a valid profile was loaded.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil || !profile.IsValid() {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists reports whether a profile file exists at path.
func ProfileExists(path string) bool {
	_, err := os.Stat(resolvePath(path))
	return err == nil
}
