// Package ui holds the terminal color themes shared by the CLI, the usage
// text and the error handler.
package ui

import (
	"os"
	"sync"
)

// Theme is a set of ANSI escape codes, one per semantic role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Bold      string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ThemeByName returns the theme called name ("dark", "light", "none");
// unknown names select DarkTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// InitTheme selects the active theme. Colors are disabled when noColor is
// set or when NO_COLOR is present in the environment (https://no-color.org/);
// otherwise MATCALC_THEME picks the theme by name.
func InitTheme(noColor bool) {
	t := ThemeByName(os.Getenv("MATCALC_THEME"))
	if _, ok := os.LookupEnv("NO_COLOR"); ok || noColor {
		t = NoColorTheme
	}
	SetCurrentTheme(t)
}

// Colors reads escape codes from the active theme. It satisfies the color
// provider interface of the error handler.
type Colors struct{}

func (Colors) Primary() string   { return GetCurrentTheme().Primary }
func (Colors) Secondary() string { return GetCurrentTheme().Secondary }
func (Colors) Green() string     { return GetCurrentTheme().Success }
func (Colors) Yellow() string    { return GetCurrentTheme().Warning }
func (Colors) Red() string       { return GetCurrentTheme().Error }
func (Colors) Bold() string      { return GetCurrentTheme().Bold }
func (Colors) Reset() string     { return GetCurrentTheme().Reset }
