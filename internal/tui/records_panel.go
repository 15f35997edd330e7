package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/names/policy"
	"nathanbeddoewebdev/namectl/internal/tui/components"
	"nathanbeddoewebdev/namectl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DomainLoader fetches the current state of a name.
type DomainLoader interface {
	GetDomain(ctx context.Context, name string) (*domain.Domain, error)
}

// --- Messages ---

type panelDomainLoadedMsg struct {
	name   string
	domain *domain.Domain
}

type panelDomainErrorMsg struct {
	name string
	err  error
}

type panelMigrationLoadedMsg struct {
	name     string
	resolver string
	status   panel.MigrationStatus
}

type panelListsLoadedMsg struct {
	name  string
	lists panel.RecordLists
}

type panelListsErrorMsg struct {
	name       string
	generation uint64
	err        error
}

type panelEditDoneMsg struct {
	label string
	added bool
	err   error
}

// --- Panel rows ---

type panelSection int

const (
	sectionResolver panelSection = iota
	sectionRecords
	sectionOtherAddresses
	sectionTextRecords
)

// panelRow is one focusable line of the panel.
type panelRow struct {
	section  panelSection
	label    string
	display  string
	value    string
	key      string
	editable bool
	outdated bool
	mutation panel.MutationKind
}

// panelRows flattens a view into focusable rows in render order.
func panelRows(v panel.View) []panelRow {
	if v.Kind == panel.ViewEmpty {
		return nil
	}

	rows := []panelRow{{
		section:  sectionResolver,
		label:    v.Resolver.Label,
		display:  v.Resolver.Display,
		value:    v.Resolver.Value,
		editable: v.Resolver.Editable,
		outdated: v.Resolver.NeedsMigration,
		mutation: v.Resolver.Mutation,
	}}
	if v.Records == nil {
		return rows
	}

	appendItems := func(section panelSection, items []panel.RecordItem) {
		for _, it := range items {
			rows = append(rows, panelRow{
				section:  section,
				label:    it.Label,
				display:  it.Display,
				value:    it.Value,
				key:      it.Key,
				editable: it.Editable,
				mutation: it.Mutation,
			})
		}
	}
	appendItems(sectionRecords, v.Records.Items)
	appendItems(sectionOtherAddresses, v.Records.OtherAddresses.Items)
	appendItems(sectionTextRecords, v.Records.TextRecords.Items)
	return rows
}

// --- Records panel model ---

type panelMode int

const (
	modeBrowse panelMode = iota
	modePick
	modeKey
	modeValue
)

type recordsPanelModel struct {
	loader       DomainLoader
	composer     *panel.Composer
	providerName string
	name         string
	account      string

	domain     *domain.Domain
	migration  panel.MigrationStatus
	lists      *panel.RecordLists
	listsErr   error
	generation uint64

	view   panel.View
	rows   []panelRow
	cursor int

	mode       panelMode
	editor     textinput.Model
	editRow    *panelRow
	addKind    domain.RecordKind
	addKey     string
	pickCursor int

	width  int
	height int

	loading     bool
	spinner     spinner.Model
	err         error
	status      string
	statusLevel components.StatusLevel
}

func newRecordsPanelModel(loader DomainLoader, composer *panel.Composer, providerName, name, account string) recordsPanelModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	ti := textinput.New()
	ti.Width = 60
	ti.CharLimit = 256

	return recordsPanelModel{
		loader:       loader,
		composer:     composer,
		providerName: providerName,
		name:         name,
		account:      account,
		editor:       ti,
		loading:      true,
		spinner:      s,
	}
}

// RunRecordsPanel starts the full-window records panel for name.
func RunRecordsPanel(loader DomainLoader, composer *panel.Composer, providerName, name, account string) error {
	m := newRecordsPanelModel(loader, composer, providerName, name, account)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run records panel: %w", err)
	}
	return nil
}

func (m recordsPanelModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDomainCmd())
}

func (m recordsPanelModel) loadDomainCmd() tea.Cmd {
	name := m.name
	return func() tea.Msg {
		d, err := m.loader.GetDomain(context.Background(), name)
		if err != nil {
			return panelDomainErrorMsg{name: name, err: err}
		}
		return panelDomainLoadedMsg{name: name, domain: d}
	}
}

func (m recordsPanelModel) fetchMigrationCmd(d domain.Domain) tea.Cmd {
	return func() tea.Msg {
		status := m.composer.FetchMigration(context.Background(), d)
		return panelMigrationLoadedMsg{name: d.Name, resolver: d.Resolver, status: status}
	}
}

func (m recordsPanelModel) fetchListsCmd(d domain.Domain, generation uint64) tea.Cmd {
	return func() tea.Msg {
		lists, err := m.composer.FetchRecordLists(context.Background(), d, generation)
		if err != nil {
			return panelListsErrorMsg{name: d.Name, generation: generation, err: err}
		}
		return panelListsLoadedMsg{name: d.Name, lists: lists}
	}
}

func (m recordsPanelModel) applyCmd(d domain.Domain, e panel.Edit, label string, added bool) tea.Cmd {
	return func() tea.Msg {
		err := m.composer.Apply(context.Background(), d, e)
		return panelEditDoneMsg{label: label, added: added, err: err}
	}
}

func (m recordsPanelModel) isOwner() bool {
	return m.domain != nil && policy.IsOwner(m.account, m.domain.Owner)
}

// recompose rebuilds the view tree from the current state and clamps the
// cursor to the new rows.
func (m *recordsPanelModel) recompose() {
	m.view = panel.Compose(panel.Input{
		Domain:     m.domain,
		IsOwner:    m.isOwner(),
		Account:    m.account,
		Migration:  m.migration,
		Generation: m.generation,
		Lists:      m.lists,
	})
	m.rows = panelRows(m.view)
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m recordsPanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.handleEditKey(msg)
		}
		return m.handleBrowseKey(msg)

	case panelDomainLoadedMsg:
		if msg.name != m.name {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.domain = msg.domain
		m.lists = nil
		m.listsErr = nil
		if policy.HasResolver(msg.domain.Resolver) {
			m.migration = panel.PendingMigration()
			cmds = append(cmds, m.fetchMigrationCmd(*msg.domain), m.fetchListsCmd(*msg.domain, m.generation))
		} else {
			m.migration = panel.MigrationStatus{}
		}
		m.recompose()

	case panelDomainErrorMsg:
		if msg.name != m.name {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.setStatus(msg.err.Error(), components.StatusError)

	case panelMigrationLoadedMsg:
		if m.domain == nil || msg.name != m.domain.Name || msg.resolver != m.domain.Resolver {
			return m, nil
		}
		m.migration = msg.status
		m.recompose()

	case panelListsLoadedMsg:
		if m.domain == nil || msg.name != m.domain.Name || msg.lists.Generation != m.generation {
			return m, nil
		}
		lists := msg.lists
		m.lists = &lists
		m.listsErr = nil
		m.recompose()

	case panelListsErrorMsg:
		if m.domain == nil || msg.name != m.domain.Name || msg.generation != m.generation {
			return m, nil
		}
		m.listsErr = msg.err
		m.setStatus(msg.err.Error(), components.StatusError)

	case panelEditDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to update %s: %v", msg.label, msg.err), components.StatusError)
			return m, nil
		}
		if msg.added {
			m.generation++
		}
		m.setStatus(fmt.Sprintf("Updated %s.", msg.label), components.StatusSuccess)
		m.loading = true
		cmds = append(cmds, m.loadDomainCmd(), m.spinner.Tick)

	case spinner.TickMsg:
		if m.loading || m.migration.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *recordsPanelModel) setStatus(msg string, level components.StatusLevel) {
	m.status = msg
	m.statusLevel = level
}

func (m recordsPanelModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.loadDomainCmd(), m.spinner.Tick)
	case "e", "enter":
		if m.loading || len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.cursor]
		if !row.editable {
			return m, nil
		}
		m.editRow = &row
		m.mode = modeValue
		m.editor.Placeholder = row.label
		m.editor.SetValue(row.value)
		m.editor.CursorEnd()
		return m, m.editor.Focus()
	case "a":
		if m.loading || m.view.Records == nil || m.view.Records.Add == nil || len(m.view.Records.Add.Options) == 0 {
			return m, nil
		}
		m.mode = modePick
		m.pickCursor = 0
	}
	return m, nil
}

func (m recordsPanelModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.resetEdit()
		return m, nil
	}

	if m.mode == modePick {
		if m.view.Records == nil || m.view.Records.Add == nil {
			m.resetEdit()
			return m, nil
		}
		options := m.view.Records.Add.Options
		switch msg.String() {
		case "up", "k":
			if m.pickCursor > 0 {
				m.pickCursor--
			}
		case "down", "j":
			if m.pickCursor < len(options)-1 {
				m.pickCursor++
			}
		case "enter":
			m.addKind = options[m.pickCursor].Kind
			m.editor.SetValue("")
			if m.addKind == domain.RecordKindText || m.addKind == domain.RecordKindOtherAddresses {
				m.mode = modeKey
				m.editor.Placeholder = keyPlaceholder(m.addKind)
			} else {
				m.mode = modeValue
				m.editor.Placeholder = "value"
			}
			return m, m.editor.Focus()
		}
		return m, nil
	}

	if msg.String() == "enter" {
		input := strings.TrimSpace(m.editor.Value())
		if m.mode == modeKey {
			if input == "" {
				m.setStatus("key cannot be empty", components.StatusError)
				return m, nil
			}
			m.addKey = input
			m.mode = modeValue
			m.editor.SetValue("")
			m.editor.Placeholder = "value"
			return m, nil
		}
		return m.submitEdit(input)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m recordsPanelModel) submitEdit(value string) (tea.Model, tea.Cmd) {
	if m.domain == nil {
		m.resetEdit()
		return m, nil
	}
	d := *m.domain

	var (
		edit  panel.Edit
		label string
		added bool
	)
	if m.editRow != nil {
		edit = panel.Edit{Mutation: m.editRow.mutation, Key: m.editRow.key, Value: value}
		label = m.editRow.label
	} else {
		var err error
		edit, err = panel.AddEdit(d, m.addKind, m.addKey, value)
		if err != nil {
			m.setStatus(err.Error(), components.StatusError)
			m.resetEdit()
			return m, nil
		}
		label = string(m.addKind)
		if m.addKey != "" {
			label = m.addKey
		}
		added = true
	}

	m.resetEdit()
	m.setStatus(fmt.Sprintf("Updating %s...", label), components.StatusInfo)
	return m, m.applyCmd(d, edit, label, added)
}

func (m *recordsPanelModel) resetEdit() {
	m.mode = modeBrowse
	m.editRow = nil
	m.addKind = ""
	m.addKey = ""
	m.editor.Blur()
	m.editor.SetValue("")
}

func keyPlaceholder(kind domain.RecordKind) string {
	if kind == domain.RecordKindOtherAddresses {
		return "coin, e.g. " + strings.Join(domain.CoinList[:3], ", ")
	}
	return "key, e.g. " + strings.Join(domain.TextRecordKeys[:3], ", ")
}

// --- View ---

func (m recordsPanelModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "records > "+m.name, m.providerName)
	footer := components.Footer(m.width, m.bindings())
	statusBar := components.StatusBar(m.width, m.status, m.statusLevel)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := max(m.height-headerH-footerH-statusH, 1)

	var content string
	switch {
	case m.loading && m.domain == nil:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading "+m.name+"...")
	case m.err != nil && m.domain == nil:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.renderError())
	default:
		content = m.renderPanel()
	}

	if lines := lipgloss.Height(content); lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m recordsPanelModel) bindings() []components.KeyBinding {
	switch m.mode {
	case modePick:
		return []components.KeyBinding{
			{Key: "j/k", Desc: "nav"},
			{Key: "enter", Desc: "select"},
			{Key: "esc", Desc: "cancel"},
		}
	case modeKey, modeValue:
		return []components.KeyBinding{
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	}

	bindings := []components.KeyBinding{{Key: "j/k", Desc: "nav"}}
	if m.focusedEditable() {
		bindings = append(bindings, components.KeyBinding{Key: "e", Desc: "edit"})
	}
	if m.view.Records != nil && m.view.Records.Add != nil {
		bindings = append(bindings, components.KeyBinding{Key: "a", Desc: "add"})
	}
	return append(bindings,
		components.KeyBinding{Key: "r", Desc: "refresh"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)
}

func (m recordsPanelModel) focusedEditable() bool {
	return m.cursor < len(m.rows) && m.rows[m.cursor].editable
}

func (m recordsPanelModel) renderError() string {
	if errors.Is(m.err, domain.ErrNotFound) {
		return styles.WarningText.Render(m.name + " is not registered.")
	}
	return styles.ErrorText.Render(m.err.Error())
}

func (m recordsPanelModel) renderPanel() string {
	v := m.view
	if v.Kind == panel.ViewEmpty {
		return "\n  " + styles.MutedText.Render("Nothing to show.")
	}

	labelW := 16
	valueW := max(m.width-labelW-10, 12)

	var lines []string
	if v.Warning != "" {
		lines = append(lines, components.Banner(m.width, v.Warning))
	}

	lines = append(lines, "")
	section := panelSection(-1)
	headed := v.Records == nil
	for i, row := range m.rows {
		if row.section != section {
			if section == sectionResolver && !headed {
				lines = append(lines, m.renderRecordsHeading(v.Records)...)
				headed = true
			}
			section = row.section
			if section != sectionRecords {
				if title := m.sectionTitle(section); title != "" {
					lines = append(lines, "", "  "+styles.Title.Render(title))
				}
			}
		}
		lines = append(lines, m.renderRow(i, row, labelW, valueW))
		if m.mode == modeValue && m.editRow != nil && i == m.cursor {
			lines = append(lines, "    "+styles.InputFocused.Render(m.editor.View()))
		}
	}

	if v.MigrationPending {
		lines = append(lines, "", "  "+m.spinner.View()+" "+styles.MutedText.Render("Checking resolver..."))
	}

	if v.Records != nil {
		if !headed {
			lines = append(lines, m.renderRecordsHeading(v.Records)...)
		}
		lines = append(lines, m.renderRecordsTail(v.Records)...)
	}

	return strings.Join(lines, "\n")
}

func (m recordsPanelModel) sectionTitle(s panelSection) string {
	switch s {
	case sectionRecords:
		return m.view.Records.Title
	case sectionOtherAddresses:
		return m.view.Records.OtherAddresses.Title
	case sectionTextRecords:
		return m.view.Records.TextRecords.Title
	}
	return ""
}

func (m recordsPanelModel) renderRow(i int, row panelRow, labelW, valueW int) string {
	cursor := " "
	rowStyle := styles.TableCell
	if i == m.cursor && m.mode == modeBrowse {
		cursor = styles.AccentText.Render(">")
		rowStyle = styles.TableSelectedRow
	}

	value := ansi.Truncate(row.display, valueW, "…")
	line := fmt.Sprintf("%s %-*s %s",
		cursor,
		labelW, ansi.Truncate(row.label, labelW, "…"),
		styles.FieldStyle(row.editable, row.outdated).Render(value),
	)
	if row.section == sectionResolver {
		line += "  " + styles.MigrationIndicator(row.outdated)
	}
	return rowStyle.Render(line)
}

// renderRecordsHeading renders the records title and, on the legacy
// resolver, the notice that replaces the add control.
func (m recordsPanelModel) renderRecordsHeading(r *panel.Records) []string {
	lines := []string{"", "  " + styles.Title.Render(r.Title)}
	if r.Notice != "" {
		lines = append(lines, "  "+styles.WarningText.Render(r.Notice))
	}
	return lines
}

// renderRecordsTail renders the parts of the records section that are not
// rows: sub-list placeholders and the add control.
func (m recordsPanelModel) renderRecordsTail(r *panel.Records) []string {
	var lines []string
	if !r.OtherAddresses.Loaded || !r.TextRecords.Loaded {
		if m.listsErr != nil {
			lines = append(lines, "", "  "+styles.ErrorText.Render("Other addresses and text records unavailable."))
		} else {
			lines = append(lines, "  "+styles.MutedText.Render("Loading other addresses and text records..."))
		}
	}

	switch m.mode {
	case modePick:
		if r.Add == nil {
			break
		}
		lines = append(lines, "", "  "+styles.Label.Render("Add record"))
		for i, opt := range r.Add.Options {
			if i == m.pickCursor {
				lines = append(lines, "  "+styles.AccentText.Render("> "+opt.Label))
			} else {
				lines = append(lines, "    "+styles.Value.Render(opt.Label))
			}
		}
	case modeKey:
		lines = append(lines, "", "  "+styles.Label.Render("Add "+string(m.addKind)),
			"  "+styles.InputFocused.Render(m.editor.View()))
	case modeValue:
		if m.editRow == nil {
			title := "Add " + string(m.addKind)
			if m.addKey != "" {
				title += " " + m.addKey
			}
			lines = append(lines, "", "  "+styles.Label.Render(title),
				"  "+styles.InputFocused.Render(m.editor.View()))
		}
	}
	return lines
}
