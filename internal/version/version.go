// Package version parses and renders dotted version strings.
//
// The parser accepts the common major.minor.patch.label shape (label may
// also be separated with "-"). Missing numeric components default to zero.
// Rendering truncates at the first zero component, so "1.0.3" renders as
// "1" and the label is only shown when all three numbers are present and
// non-zero.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrFormat indicates the text does not contain a recognizable version.
var ErrFormat = errors.New("unrecognized version format")

// versionRx captures a leading integer, optional .minor and .patch, and an
// optional word label separated by "." or "-".
var versionRx = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:[.-]?(\w+))?`)

// Version is an immutable parsed version value.
type Version struct {
	// Major is the leading integer component.
	Major int

	// Minor is the second integer component (0 if absent).
	Minor int

	// Patch is the third integer component (0 if absent).
	Patch int

	// Label is the free-text trailing token (empty if absent).
	Label string
}

// Parse extracts a Version from free text.
// It returns an error wrapping ErrFormat when no leading integer is found.
func Parse(text string) (Version, error) {
	m := versionRx.FindStringSubmatch(text)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}

	v := Version{
		Major: atoiOr(m[1], 0),
		Minor: atoiOr(m[2], 0),
		Patch: atoiOr(m[3], 0),
		Label: m[4],
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed input.
// Intended for literals in tests and defaults.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version, stopping at the first zero component.
// The label is only included when major, minor, and patch are all non-zero.
func (v Version) String() string {
	var b strings.Builder
	if v.Major > 0 {
		b.WriteString(strconv.Itoa(v.Major))
		if v.Minor > 0 {
			b.WriteString(".")
			b.WriteString(strconv.Itoa(v.Minor))
			if v.Patch > 0 {
				b.WriteString(".")
				b.WriteString(strconv.Itoa(v.Patch))
				if v.Label != "" {
					b.WriteString(".")
					b.WriteString(v.Label)
				}
			}
		}
	}
	return b.String()
}

// IsZero reports whether the version carries no information.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && v.Label == ""
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
