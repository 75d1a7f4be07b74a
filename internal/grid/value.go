package grid

import (
	"strconv"
	"strings"
)

// CastValue casts a string to an int or float64, falling back to the
// string itself when neither parse succeeds.
func CastValue(s string) interface{} {
	if intValue, err := strconv.Atoi(s); err == nil {
		return intValue
	}
	if floatValue, err := strconv.ParseFloat(s, 64); err == nil {
		return floatValue
	}
	return s
}

// FormatValue renders a parameter value so that CastValue(FormatValue(v)) == v.
// Floats always carry a decimal point or exponent to keep their type across a
// round-trip.
func FormatValue(v interface{}) string {
	switch value := v.(type) {
	case int:
		return strconv.Itoa(value)
	case float64:
		formatted := strconv.FormatFloat(value, 'g', -1, 64)
		if !strings.ContainsAny(formatted, ".eE") {
			formatted += ".0"
		}
		return formatted
	case string:
		return value
	default:
		return ""
	}
}
