// Package timeutil formats durations and timestamps for console and JSON output.
package timeutil

import (
	"fmt"
	"time"
)

// ExportTimestampLayout renders a UTC time with microseconds and an explicit
// "+00:00" offset, e.g. 2025-01-02T03:04:05.000006+00:00.
const ExportTimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// FormatExportTimestamp formats t in UTC using ExportTimestampLayout.
func FormatExportTimestamp(t time.Time) string {
	return t.UTC().Format(ExportTimestampLayout)
}

// FormatDuration renders a duration in a compact human form: "45s", "2m 5s", "1h 3m".
// Zero and negative durations render as "N/A".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
