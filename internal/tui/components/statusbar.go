package components

import (
	"nathanbeddoewebdev/namectl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// StatusLevel selects the colour of a status bar message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusError
)

// StatusBar renders a status message line between the content and footer.
func StatusBar(width int, message string, level StatusLevel) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	switch level {
	case StatusSuccess:
		style = styles.SuccessText
	case StatusError:
		style = styles.ErrorText
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(message))
}

// Banner renders a wrapped warning box spanning the content width.
func Banner(width int, message string) string {
	if message == "" {
		return ""
	}
	inner := max(width-6, 10)
	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(styles.Banner.Width(inner).Render(message))
}
