package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	ColorTitle   = lipgloss.Color("#2196F3")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorSuccess = lipgloss.Color("#8BC34A")
	ColorError   = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used for terminal output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the console styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorTitle),
		Header:  lipgloss.NewStyle().Bold(true),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
	}
}

// PlainStyles renders without colour or emphasis.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Header: s, Body: s, Muted: s, Success: s, Error: s}
}

// RenderTable draws t as a bordered grid. A table with no rows renders its
// Empty text in place of the body.
func RenderTable(t Table, styles Styles) string {
	var sb strings.Builder

	if t.Name != "" {
		sb.WriteString(styles.Title.Render(strings.ToUpper(t.Name)))
		sb.WriteString("\n")
	}

	widths := columnWidths(t)
	header := styles.Header.Padding(0, 1)
	body := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	for i, h := range t.Headers {
		sb.WriteString(header.Width(widths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(t.Headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", max(total, 0))))
	sb.WriteString("\n")

	if len(t.Rows) == 0 {
		sb.WriteString(styles.Muted.Padding(0, 1).Render(t.Empty))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, r := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(r.Cells) {
				cell = r.Cells[i]
			}
			sb.WriteString(body.Width(widths[i]).Render(cell))
			if i < len(t.Headers)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// columnWidths sizes each column to its widest cell plus padding.
func columnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.Rows {
		for i, cell := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}
