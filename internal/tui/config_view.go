package tui

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/namectl/internal/config"
	"nathanbeddoewebdev/namectl/internal/tui/components"
	"nathanbeddoewebdev/namectl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const providerKey = "default-provider"

type configSavedMsg struct {
	key   string
	value string
}

type configSaveErrorMsg struct {
	err error
}

// configViewModel lists every config key and edits one at a time. Values
// go through the key's normaliser; default-provider must also name one of
// the registered providers, and tab cycles through them while editing.
type configViewModel struct {
	cfg       *config.Config
	keys      []config.KeySpec
	providers []string

	cursor  int
	editing bool
	editor  textinput.Model

	width  int
	height int

	status      string
	statusLevel components.StatusLevel
}

// RunConfigView opens the interactive config editor. providerNames are the
// values offered for default-provider.
func RunConfigView(providerNames []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m := newConfigViewModel(cfg, providerNames)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newConfigViewModel(cfg *config.Config, providerNames []string) configViewModel {
	names := slices.Clone(providerNames)
	slices.Sort(names)
	return configViewModel{cfg: cfg, keys: config.Keys, providers: names}
}

func (m configViewModel) Init() tea.Cmd {
	return nil
}

func (m configViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleBrowseKey(msg)

	case configSavedMsg:
		m.editing = false
		m.status = fmt.Sprintf("%s set to %q", msg.key, msg.value)
		m.statusLevel = components.StatusSuccess
		return m, nil

	case configSaveErrorMsg:
		m.status = "Failed to save config: " + msg.err.Error()
		m.statusLevel = components.StatusError
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m configViewModel) selected() config.KeySpec {
	return m.keys[m.cursor]
}

func (m configViewModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.keys)-1)
	case "enter", "e":
		spec := m.selected()
		ti := textinput.New()
		ti.SetValue(spec.Get(m.cfg))
		ti.Placeholder = m.placeholder(spec)
		ti.Width = 44
		ti.Focus()
		m.editor = ti
		m.editing = true
		m.status = ""
		return m, textinput.Blink
	}
	return m, nil
}

func (m configViewModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "tab":
		if m.selected().Name == providerKey && len(m.providers) > 0 {
			m.editor.SetValue(m.nextProvider(m.editor.Value()))
			m.editor.CursorEnd()
		}
		return m, nil
	case "enter":
		spec := m.selected()
		value, err := m.validate(spec, m.editor.Value())
		if err != nil {
			m.status = err.Error()
			m.statusLevel = components.StatusError
			return m, nil
		}
		spec.Set(m.cfg, value)
		return m, m.save(spec.Name, value)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m configViewModel) validate(spec config.KeySpec, raw string) (string, error) {
	value, err := spec.NormalizeValue(raw)
	if err != nil {
		return "", fmt.Errorf("invalid value for %s: %w", spec.Name, err)
	}
	if spec.Name == providerKey && value != "" && !slices.Contains(m.providers, value) {
		return "", fmt.Errorf("unknown provider %q (registered: %s)", value, strings.Join(m.providers, ", "))
	}
	return value, nil
}

// nextProvider returns the provider after current in sorted order, wrapping
// to the first.
func (m configViewModel) nextProvider(current string) string {
	i := slices.Index(m.providers, strings.ToLower(strings.TrimSpace(current)))
	return m.providers[(i+1)%len(m.providers)]
}

func (m configViewModel) placeholder(spec config.KeySpec) string {
	switch spec.Name {
	case providerKey:
		return "tab to cycle providers"
	case "account":
		return "0x-prefixed address"
	}
	return "enter value"
}

func (m configViewModel) save(key, value string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return configSaveErrorMsg{err: err}
		}
		return configSavedMsg{key: key, value: value}
	}
}

func (m configViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "nav"},
		{Key: "e", Desc: "edit"},
		{Key: "q", Desc: "quit"},
	}
	if m.editing {
		bindings = []components.KeyBinding{{Key: "enter", Desc: "save"}, {Key: "esc", Desc: "cancel"}}
		if m.selected().Name == providerKey {
			bindings = append(bindings, components.KeyBinding{Key: "tab", Desc: "next provider"})
		}
	}

	header := components.Header(m.width, "config", "")
	footer := components.Footer(m.width, bindings)
	statusBar := components.StatusBar(m.width, m.status, m.statusLevel)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)
	content := m.renderKeys()
	if lines := lipgloss.Height(content); lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m configViewModel) renderKeys() string {
	const labelW = 18

	lines := []string{"", "  " + styles.Title.Render("Configuration"), ""}
	for i, spec := range m.keys {
		value := spec.Get(m.cfg)
		if value == "" {
			value = "(not set)"
		}

		if i != m.cursor {
			lines = append(lines, "    "+styles.MutedText.Width(labelW).Render(spec.Name)+styles.MutedText.Render(value))
			continue
		}

		label := styles.AccentText.Render("> ") + styles.Label.Width(labelW).Render(spec.Name)
		if m.editing {
			lines = append(lines, "  "+label+m.editor.View())
		} else {
			lines = append(lines, "  "+label+styles.Value.Bold(true).Render(value))
		}
		lines = append(lines, "      "+styles.MutedText.Italic(true).Render(spec.Description))
		if spec.Name == providerKey && len(m.providers) > 0 {
			lines = append(lines, "      "+styles.MutedText.Render("registered: "+strings.Join(m.providers, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}
