package activation

import (
	"strconv"
	"strings"
)

// ParseThreshold parses a free-text entry price. Values may carry a currency
// prefix and thousands separators ("$60,000"). Malformed or non-positive
// values degrade to nil ("threshold not set") rather than erroring.
func ParseThreshold(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
