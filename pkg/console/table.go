package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
	// TotalRow, if set, is rendered as the last row (e.g. column totals).
	TotalRow []string
}

// RenderTable renders config as a bordered table. It returns an empty string
// when there are no headers.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	rows := config.Rows
	if len(config.TotalRow) > 0 {
		rows = append(append([][]string{}, rows...), config.TotalRow)
	}
	totalIndex := -2
	if len(config.TotalRow) > 0 {
		totalIndex = len(rows) - 1
	}

	tty := isTTY()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(config.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return styles.TableHeader
			case totalIndex:
				return styles.TableHeader
			default:
				return styles.TableCell
			}
		})
	if tty {
		t = t.BorderStyle(styles.TableBorder)
	}

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(FormatSectionHeader(config.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}
