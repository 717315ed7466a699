// Package extract pulls fields out of the site's markup with fixed regular
// expressions. It does not build a DOM: the markup is known but unstable, and
// each matcher only needs one bounded region.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternCompileError is returned when a matcher pattern does not compile.
type PatternCompileError struct {
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("compile pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error { return e.Err }

// Compile compiles pattern, wrapping failures in PatternCompileError.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternCompileError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// First returns the first capture group of the first match in text.
// Patterns without a group yield the whole match.
func First(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// All returns the first capture group of every non-overlapping match, in
// document order.
func All(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
			continue
		}
		out = append(out, m[0])
	}
	return out
}

// Replacement is one literal substitution.
type Replacement struct {
	Old string
	New string
}

// Strip applies each replacement to text in order. Every replacement runs
// whether or not an earlier one matched. Empty Old values are skipped.
func Strip(text string, reps []Replacement) string {
	for _, r := range reps {
		if r.Old == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Old, r.New)
	}
	return text
}

// HostRewrite replaces every occurrence of host from with host to.
func HostRewrite(from, to string) Replacement {
	return Replacement{Old: from, New: to}
}
