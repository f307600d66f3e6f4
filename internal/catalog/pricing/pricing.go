// Package pricing parses the locale-ambiguous price strings found in the
// price list sheet. Values arrive in either AR/EU format ("1.234,56") or US
// format ("1,234.56"), with no marker saying which.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts a price string to a float. It never fails: empty or
// unparseable input yields 0.
//
// When both separators are present, the one appearing later in the string is
// the decimal separator. With a single separator, a final group of exactly
// three digits is read as a thousands group ("32.363" -> 32363), anything
// else as a decimal ("32.36" -> 32.36). A true decimal with exactly three
// digits after the point is indistinguishable from a thousands group, so
// this remains a heuristic.
func ParsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}

	clean := stripNonNumeric(raw)
	if clean == "" {
		return 0
	}

	hasComma := strings.Contains(clean, ",")
	hasDot := strings.Contains(clean, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// AR/EU: dot groups thousands, comma is decimal
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			// US: comma groups thousands
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasDot:
		if lastSegmentLen(clean, ".") == 3 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	case hasComma:
		if lastSegmentLen(clean, ",") == 3 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.Replace(clean, ",", ".", 1)
		}
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// stripNonNumeric keeps digits, separators and the minus sign only.
func stripNonNumeric(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func lastSegmentLen(s, sep string) int {
	segments := strings.Split(s, sep)
	return len(segments[len(segments)-1])
}
