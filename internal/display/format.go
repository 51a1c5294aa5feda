package display

import (
	"fmt"
	"time"
)

// FormatDuration renders d the way a person would say it: "45s",
// "2m 5s", "1h 2m 5s". Sub-second durations round up to "0s" or "1s"
// rather than showing milliseconds nobody asked for.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Round(time.Second).Seconds())

	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatPercent renders a completion fraction as a padded percentage,
// or a placeholder when the fraction is unknown.
func FormatPercent(fraction float64) string {
	if fraction < 0 {
		return "  --"
	}
	if fraction > 1 {
		fraction = 1
	}
	return fmt.Sprintf("%3.0f%%", fraction*100)
}
