// Package testutil provides helpers shared by the tests of several packages.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences such as the color codes of the
// terminal themes.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes terminal escape codes so that assertions can match the
// visible text of colored output.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
