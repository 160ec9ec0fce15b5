package tap

import "math"

// isSpace reports whether b is whitespace under the ASCII byte locale used
// throughout this package (space, tab, CR, LF, VT, FF).
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// stripLeft returns s with leading whitespace removed.
func stripLeft(s []byte) []byte {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

// chomp returns s with the first trailing whitespace run removed.
func chomp(s []byte) []byte {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		end--
	}
	return s[:end]
}

// trim is chomp(stripLeft(s)).
func trim(s []byte) []byte {
	return chomp(stripLeft(s))
}

// parseStatus distinguishes the outcomes of parseLong.
type parseStatus int

const (
	parseOK parseStatus = iota
	parseNoDigits
	parseOverflow
)

// parseLong parses a signed decimal integer from the front of s, returning
// the value, the unconsumed tail, and a status. No digits consumed is
// reported distinctly from a successful zero-length-tail parse so callers
// can tell "3" from "abc" from "99999999999999999999".
func parseLong(s []byte) (value int, tail []byte, status parseStatus) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	var acc int
	overflowed := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		d := int(s[i] - '0')
		if acc > (math.MaxInt-d)/10 {
			overflowed = true
		} else {
			acc = acc*10 + d
		}
		i++
	}
	if i == start {
		return 0, s, parseNoDigits
	}
	if overflowed {
		return 0, s[i:], parseOverflow
	}
	if neg {
		acc = -acc
	}
	return acc, s[i:], parseOK
}
