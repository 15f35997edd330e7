package tui

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/namectl/internal/services/auth"
	"nathanbeddoewebdev/namectl/internal/tui/components"
	"nathanbeddoewebdev/namectl/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProviderStatus is the stored-credential state of one provider.
type ProviderStatus struct {
	Name   string
	Status string // "authenticated", "not authenticated", or an error
	OK     bool
}

// ProviderStatuses checks the store for a token for each provider. Missing
// tokens are not errors: anonymous access is allowed for reads.
func ProviderStatuses(store auth.Store, providerNames []string) []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(providerNames))
	for _, name := range providerNames {
		_, err := store.GetToken(name)
		switch {
		case err == nil:
			statuses = append(statuses, ProviderStatus{Name: name, Status: "authenticated", OK: true})
		case errors.Is(err, auth.ErrTokenNotFound):
			statuses = append(statuses, ProviderStatus{Name: name, Status: "not authenticated"})
		default:
			statuses = append(statuses, ProviderStatus{Name: name, Status: fmt.Sprintf("error: %v", err)})
		}
	}
	return statuses
}

type authStatusModel struct {
	statuses []ProviderStatus

	width  int
	height int
}

// RunAuthStatus starts the full-window auth status TUI.
func RunAuthStatus(store auth.Store, providerNames []string) error {
	m := authStatusModel{statuses: ProviderStatuses(store, providerNames)}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m authStatusModel) Init() tea.Cmd {
	return nil
}

func (m authStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m authStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", "")
	footer := components.Footer(m.width, []components.KeyBinding{{Key: "q", Desc: "quit"}})
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var content string
	if len(m.statuses) == 0 {
		content = styles.MutedText.Render("No providers registered.")
	} else {
		rows := make([]string, 0, len(m.statuses))
		for _, ps := range m.statuses {
			status := styles.MutedText.Render(ps.Status)
			if ps.OK {
				status = styles.SuccessText.Render(ps.Status)
			}
			rows = append(rows, styles.Label.Width(16).Render(ps.Name)+status)
		}
		content = lipgloss.JoinVertical(lipgloss.Center,
			styles.Title.Render("Provider Authentication"),
			"",
			styles.Card.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		)
	}

	body := lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
