package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns $MATCALC_<key>, or defaultVal when unset or empty.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns $MATCALC_<key> as an int, or defaultVal when unset or
// unparsable.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every flag that was not given explicitly from its
// environment variable:
//
//	MATCALC_ROWS, MATCALC_INNER, MATCALC_COLS, MATCALC_THRESHOLD,
//	MATCALC_PARALLEL_THRESHOLD, MATCALC_WORKERS, MATCALC_SEED,
//	MATCALC_TOLERANCE, MATCALC_TIMEOUT, MATCALC_ALGO, MATCALC_EXECUTOR,
//	MATCALC_CALIBRATION_PROFILE, MATCALC_LOG_LEVEL, MATCALC_VERBOSE,
//	MATCALC_DETAILS, MATCALC_QUIET, MATCALC_NO_COLOR, MATCALC_CALIBRATE,
//	MATCALC_AUTO_CALIBRATE, MATCALC_METRICS, MATCALC_SERVER, MATCALC_PORT,
//	MATCALC_RATE_LIMIT
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"rows", "ROWS", &config.Rows},
		{"inner", "INNER", &config.Inner},
		{"cols", "COLS", &config.Cols},
		{"threshold", "THRESHOLD", &config.Threshold},
		{"parallel-threshold", "PARALLEL_THRESHOLD", &config.ParallelThreshold},
		{"workers", "WORKERS", &config.Workers},
		{"rate-limit", "RATE_LIMIT", &config.RateLimit},
	}
	for _, o := range ints {
		if !isFlagSet(fs, o.flag) {
			*o.dst = getEnvInt(o.env, *o.dst)
		}
	}

	if !isFlagSet(fs, "seed") {
		config.Seed = getEnvInt64("SEED", config.Seed)
	}
	if !isFlagSet(fs, "tolerance") {
		config.Tolerance = getEnvFloat("TOLERANCE", config.Tolerance)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}

	strs := []struct {
		flag, env string
		dst       *string
	}{
		{"algo", "ALGO", &config.Algo},
		{"executor", "EXECUTOR", &config.Executor},
		{"calibration-profile", "CALIBRATION_PROFILE", &config.CalibrationProfile},
		{"log-level", "LOG_LEVEL", &config.LogLevel},
		{"port", "PORT", &config.Port},
	}
	for _, o := range strs {
		if !isFlagSet(fs, o.flag) {
			*o.dst = getEnvString(o.env, *o.dst)
		}
	}

	bools := []struct {
		flags []string
		env   string
		dst   *bool
	}{
		{[]string{"v"}, "VERBOSE", &config.Verbose},
		{[]string{"d", "details"}, "DETAILS", &config.Details},
		{[]string{"quiet", "q"}, "QUIET", &config.Quiet},
		{[]string{"no-color"}, "NO_COLOR", &config.NoColor},
		{[]string{"calibrate"}, "CALIBRATE", &config.Calibrate},
		{[]string{"auto-calibrate"}, "AUTO_CALIBRATE", &config.AutoCalibrate},
		{[]string{"metrics"}, "METRICS", &config.Metrics},
		{[]string{"server"}, "SERVER", &config.ServerMode},
	}
	for _, o := range bools {
		if !isFlagSet(fs, o.flags...) {
			*o.dst = getEnvBool(o.env, *o.dst)
		}
	}
}
