package model

import (
	"strconv"
	"strings"
)

// ParseNumber reads a free-text numeric field. Whitespace, currency signs and
// digit separators are dropped, then the longest leading decimal prefix is
// parsed. Anything unparseable yields 0.
func ParseNumber(s string) float64 {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', ',', '_', '$':
			return -1
		}
		return r
	}, s)

	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// IsNumeric reports whether ParseNumber finds a number in s.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
		if !strings.ContainsRune("$+-., _", r) {
			return false
		}
	}
	return false
}
