// Package cells converts CSV rows into worksheet cell values and tracks the
// shape of the data written to a sheet.
package cells

import (
	"math"
	"strconv"
	"strings"
)

// maxExactDigits is the number of significant digits a spreadsheet keeps
// for a number; longer digit strings stay text.
const maxExactDigits = 15

// Values converts a row into cell values. With infer unset every field is
// written as text; otherwise numeric-looking fields become numbers.
func Values(row []string, infer bool) []interface{} {
	values := make([]interface{}, len(row))
	for i, field := range row {
		if infer {
			values[i] = ParseValue(field)
		} else {
			values[i] = field
		}
	}
	return values
}

// ParseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
// Values with leading zeros, surrounding spaces, or more digits than a
// spreadsheet stores exactly are kept as strings.
func ParseValue(s string) interface{} {
	if !looksNumeric(s) {
		return s
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	// Return as string
	return s
}

func looksNumeric(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	digits := strings.TrimLeft(s, "+-")
	if digits == "" {
		return false
	}
	if c := digits[0]; (c < '0' || c > '9') && c != '.' {
		return false
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	significant := 0
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
			significant++
		case r == 'e' || r == 'E':
			return significant <= maxExactDigits
		}
	}
	return significant <= maxExactDigits
}
