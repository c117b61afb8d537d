package utils

import (
	"math"
	"strings"
)

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Bar renders value as a horizontal bar of width cells scaled against scale.
// Values are clamped to [0, scale].
func Bar(value, scale float64, width int) string {
	if width <= 0 {
		return ""
	}
	if scale <= 0 || math.IsNaN(value) {
		return strings.Repeat("░", width)
	}

	ratio := math.Min(math.Max(value/scale, 0), 1)
	filled := int(math.Round(ratio * float64(width)))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
