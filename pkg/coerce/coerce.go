// Package coerce converts loose, extraction-shaped leaf values into typed
// ones. Document extraction yields strings like "85%", "CHF 120.50" or
// "inclus" where the rules need numbers and booleans; every helper falls back
// to a caller-supplied default instead of failing.
package coerce

import (
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// trueKeywords are the markers, French and English, that extraction output
// uses for a covered benefit. Matched by substring on the lower-cased value,
// so "inclus" also catches "incluse" and "couv" catches "couvert(e)".
var trueKeywords = []string{
	"true", "oui", "yes", "1", "vrai",
	"inclu", "couv", "fourni", "disponible",
}

// Float converts a value to float64. Numeric types pass through; strings are
// stripped down to their digits and decimal point, with spelled-out hundred
// and fifty as a last resort. Anything else yields the default.
func Float(value any, def float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := nonNumeric.ReplaceAllString(v, "")
		if cleaned != "" {
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f
			}
		}
		lower := strings.ToLower(v)
		if strings.Contains(lower, "cent") || strings.Contains(lower, "hundred") {
			return 100
		}
		if strings.Contains(lower, "cinquante") || strings.Contains(lower, "fifty") {
			return 50
		}
	}
	return def
}

// FloatPtr is Float without a default: it reports nil when the value does not
// convert, so callers can distinguish "absent" from "zero".
func FloatPtr(value any) *float64 {
	if value == nil {
		return nil
	}
	marker := -1.0
	f := Float(value, marker)
	if f == marker {
		return nil
	}
	return &f
}

// Int converts a value to int via Float, truncating any fraction.
func Int(value any, def int) int {
	return int(Float(value, float64(def)))
}

// Bool converts a value to bool. Booleans pass through, numbers are true when
// positive, strings are matched against the coverage keyword list.
func Bool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v > 0
	case int:
		return v > 0
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		for _, keyword := range trueKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// String reduces a value to one of the valid strings: the first valid value
// contained in the lower-cased input wins, otherwise the default. Order in
// valid matters when one value is a substring of another.
func String(value any, valid []string, def string) string {
	s, ok := value.(string)
	if !ok {
		return def
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, candidate := range valid {
		if strings.Contains(lower, candidate) {
			return candidate
		}
	}
	return def
}
