// Package components provides reusable Bubbletea UI building blocks for
// the namectl TUI. These are render-only helpers (not tea.Model) used by
// the main TUI models to compose views.
package components

import (
	"strings"

	"nathanbeddoewebdev/namectl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Header renders the application header bar.
//
//	┌──────────────────────────────────────────┐
//	│  namectl > records > alice.eth  GraphQL  │
//	└──────────────────────────────────────────┘
//
// Long breadcrumbs are truncated so the provider label stays visible.
func Header(width int, breadcrumb string, provider string) string {
	if width < 10 {
		return ""
	}

	right := ""
	if provider != "" {
		right = styles.Subtitle.Render(provider)
	}

	innerWidth := width - 4 // account for padding
	brand := styles.Title.Foreground(styles.Blue).Render("namectl")
	left := brand
	if breadcrumb != "" {
		sep := styles.MutedText.Render(" > ")
		room := innerWidth - lipgloss.Width(brand) - lipgloss.Width(sep) - lipgloss.Width(right) - 1
		if room > 0 {
			left += sep + styles.Title.Render(ansi.Truncate(breadcrumb, room, "…"))
		}
	}

	gap := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
	content := left + strings.Repeat(" ", gap) + right

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(content)
}
