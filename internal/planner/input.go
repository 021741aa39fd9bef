// internal/planner/input.go
package planner

import (
	"strconv"
	"strings"
)

// ParseLeadingFloat parses the longest numeric prefix of s, ignoring leading
// whitespace, so "1.5 份全穀" yields 1.5. ok is false when no digits lead the
// string.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	// Optional exponent, only taken when complete.
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			exp++
		}
		if exp > start {
			end = exp
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CommitNumber is the value stored when a field loses focus: the parsed
// number, or zero for empty or non-numeric text.
func CommitNumber(s string) float64 {
	v, ok := ParseLeadingFloat(s)
	if !ok {
		return 0
	}
	return v
}

// NumericField decouples the text being typed from the committed value.
// While editing, invalid text keeps the last valid value.
type NumericField struct {
	Text  string
	Value float64
}

func NewNumericField(v float64) NumericField {
	return NumericField{Text: strconv.FormatFloat(v, 'f', -1, 64), Value: v}
}

// Edit records typed text and updates the value only when it parses.
func (f *NumericField) Edit(text string) {
	f.Text = text
	if v, ok := ParseLeadingFloat(text); ok {
		f.Value = v
	}
}

// Commit finalises the field: invalid or empty text becomes zero.
func (f *NumericField) Commit() float64 {
	f.Value = CommitNumber(f.Text)
	f.Text = strconv.FormatFloat(f.Value, 'f', -1, 64)
	return f.Value
}
