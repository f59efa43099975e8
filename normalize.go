package smartcalc

import (
	"strings"
	"unicode"
)

// Normalize removes whitespace from an input line and collapses each run of
// signs to the single sign it means: a run containing an odd number of '-' is
// "-", and any other run is "+". So "1 +++ 2 -- 4" becomes "1+2+4", and
// "3 - - - 1" becomes "3-1". Normalizing a normalized string returns it
// unchanged.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	// run is the sign of the current run of signs, or 0 outside of one.
	var run byte
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '+':
			if run == 0 {
				run = '+'
			}
			continue
		case r == '-':
			if run == '-' {
				run = '+'
			} else {
				run = '-'
			}
			continue
		}
		if run != 0 {
			b.WriteByte(run)
			run = 0
		}
		b.WriteRune(r)
	}
	if run != 0 {
		b.WriteByte(run)
	}
	return b.String()
}

// Validate checks a normalized expression for doubled multiplication or
// division operators and for unbalanced or misordered brackets. Unlike signs,
// "**" and "//" never collapse.
func Validate(s string) error {
	if k := strings.Index(s, "**"); k >= 0 {
		return &RunError{Col: k + 1, Run: "**"}
	}
	if k := strings.Index(s, "//"); k >= 0 {
		return &RunError{Col: k + 1, Run: "//"}
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return &BracketError{Col: i + 1, Right: ")"}
			}
		}
	}
	if depth != 0 {
		return &BracketError{Col: strings.LastIndexByte(s, '(') + 1, Left: "("}
	}
	return nil
}
