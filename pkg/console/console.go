// Package console formats user-facing terminal output.
//
// Messages are prefixed with an icon and styled with lipgloss when stdout is a
// terminal; when output is redirected (pipes, files, tests) the plain text is
// returned so reports stay machine readable.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/urunc-dev/urunc-workflows/pkg/tty"
)

var styles = struct {
	Success     lipgloss.Style
	Info        lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Progress    lipgloss.Style
	Verbose     lipgloss.Style
	Header      lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style
	RateHigh    lipgloss.Style
	RateFair    lipgloss.Style
	RateLow     lipgloss.Style
	RatePoor    lipgloss.Style
}{
	Success:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#27AE60", Dark: "#50FA7B"}).Bold(true),
	Info:        lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2980B9", Dark: "#8BE9FD"}),
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FFB86C"}),
	Error:       lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}).Bold(true),
	Progress:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8E44AD", Dark: "#BD93F9"}),
	Verbose:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7F8C8D", Dark: "#6272A4"}).Italic(true),
	Header:      lipgloss.NewStyle().Bold(true),
	TableHeader: lipgloss.NewStyle().Bold(true).Padding(0, 1),
	TableCell:   lipgloss.NewStyle().Padding(0, 1),
	TableBorder: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#BDC3C7", Dark: "#44475A"}),
	RateHigh:    lipgloss.NewStyle().Foreground(lipgloss.Color("#28A745")).Bold(true),
	RateFair:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")).Bold(true),
	RateLow:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FD7E14")).Bold(true),
	RatePoor:    lipgloss.NewStyle().Foreground(lipgloss.Color("#DC3545")).Bold(true),
}

func isTTY() bool {
	return tty.IsStdoutTerminal()
}

// applyStyle renders text with style only when stdout is a terminal.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(styles.Success, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(styles.Info, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(styles.Warning, "⚠ ") + message
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ ") + message
}

// FormatProgressMessage formats a progress message for long running operations.
func FormatProgressMessage(message string) string {
	return applyStyle(styles.Progress, "🔨 ") + message
}

// FormatVerboseMessage formats a message only shown with --verbose.
func FormatVerboseMessage(message string) string {
	return applyStyle(styles.Verbose, "🔍 "+message)
}

// FormatSectionHeader formats a bold section header.
func FormatSectionHeader(header string) string {
	return applyStyle(styles.Header, header)
}

// FormatPassRate formats a percentage with one decimal, colored green at 90%
// and above, yellow from 70%, orange from 50% and red below.
func FormatPassRate(rate float64) string {
	text := fmt.Sprintf("%.1f%%", rate)
	switch {
	case rate >= 90:
		return applyStyle(styles.RateHigh, text)
	case rate >= 70:
		return applyStyle(styles.RateFair, text)
	case rate >= 50:
		return applyStyle(styles.RateLow, text)
	default:
		return applyStyle(styles.RatePoor, text)
	}
}

// LogVerbose prints message to w when verbose is enabled.
func LogVerbose(w io.Writer, verbose bool, message string) {
	if verbose {
		fmt.Fprintln(w, FormatVerboseMessage(message))
	}
}
