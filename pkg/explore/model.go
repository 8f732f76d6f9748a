// Package explore is an interactive terminal browser for recorded searches.
package explore

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	paneSearches
)

// offsetPreview bounds how many offsets the details pane lists.
const offsetPreview = 40

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data    *exploreData
	facets  []*facetValue
	visible []*historyRow

	cursor      int
	facetCursor int
	focus       focusedPane
	showHelp    bool

	width  int
	height int
}

// New creates a Model by loading searches from the datastore at path.
func New(path string) (Model, error) {
	data, err := loadData(path)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:   data,
		facets: buildFacets(data.rows),
		focus:  paneSearches,
	}
	m.applyFilters()
	return m
}

// Run starts the TUI on the terminal and blocks until the user quits.
func Run(path string) error {
	m, err := New(path)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("matchers explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			// Any key closes help.
			m.showHelp = false
			return m, nil
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showHelp = true
			return m, nil
		case keyMatches(msg, defaultKeys.Switch):
			if m.focus == paneFilters {
				m.focus = paneSearches
			} else {
				m.focus = paneFilters
			}
			return m, nil
		case keyMatches(msg, defaultKeys.ResetFilter):
			for _, f := range m.facets {
				f.Selected = false
			}
			m.applyFilters()
			return m, nil
		}

		if m.focus == paneFilters {
			m.updateFilters(msg)
		} else {
			m.cursor = moveCursor(msg, m.cursor, len(m.visible))
		}
	}
	return m, nil
}

func (m *Model) updateFilters(msg tea.KeyMsg) {
	if keyMatches(msg, defaultKeys.ToggleFilter) {
		if m.facetCursor < len(m.facets) {
			f := m.facets[m.facetCursor]
			f.Selected = !f.Selected
			m.applyFilters()
		}
		return
	}
	m.facetCursor = moveCursor(msg, m.facetCursor, len(m.facets))
}

func moveCursor(msg tea.KeyMsg, cursor, n int) int {
	if n == 0 {
		return 0
	}
	switch {
	case keyMatches(msg, defaultKeys.Up):
		return max(0, cursor-1)
	case keyMatches(msg, defaultKeys.Down):
		return min(n-1, cursor+1)
	case keyMatches(msg, defaultKeys.Home):
		return 0
	case keyMatches(msg, defaultKeys.End):
		return n - 1
	}
	return cursor
}

func (m *Model) applyFilters() {
	m.visible = filterRows(m.data.rows, m.facets)
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
}

func (m Model) selected() *historyRow {
	if m.cursor < len(m.visible) {
		return m.visible[m.cursor]
	}
	return nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(renderHelp()))
	}

	contentHeight := m.height - 2
	filtersWidth := min(m.width*25/100, 40)
	dataWidth := m.width - filtersWidth
	tableHeight := contentHeight * 50 / 100
	detailsHeight := contentHeight - tableHeight

	filters := m.pane("Matchers", m.renderFilters(), filtersWidth, contentHeight, m.focus == paneFilters)
	table := m.pane("Searches", m.renderTable(tableHeight-4), dataWidth, tableHeight, m.focus == paneSearches)
	details := m.pane("Details", m.renderDetails(), dataWidth, detailsHeight, false)

	body := lipgloss.JoinHorizontal(lipgloss.Top, filters, lipgloss.JoinVertical(lipgloss.Left, table, details))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// =============================================================================
// HELPERS
// =============================================================================

func (m Model) pane(title, body string, width, height int, active bool) string {
	style := inactiveBorderStyle
	if active {
		style = activeBorderStyle
	}
	content := titleStyle.Render(title) + "\n" + body
	return style.Width(max(0, width-2)).Height(max(0, height-2)).Render(content)
}

func (m Model) renderFilters() string {
	if len(m.facets) == 0 {
		return facetCountStyle.Render("(none)")
	}

	var b strings.Builder
	for i, f := range m.facets {
		box := "[ ]"
		if f.Selected {
			box = facetSelectedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s %s", box, f.Value, facetCountStyle.Render(fmt.Sprintf("(%d)", f.Count)))
		if m.focus == paneFilters && i == m.facetCursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderTable(rowsShown int) string {
	if len(m.visible) == 0 {
		return facetCountStyle.Render("No searches.")
	}

	var b strings.Builder
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-6s %-16s %-12s %s", "ID", "Matcher", "Matches", "Needle")) + "\n")

	rowsShown = max(1, rowsShown)
	start := 0
	if m.cursor >= rowsShown {
		start = m.cursor - rowsShown + 1
	}
	end := min(len(m.visible), start+rowsShown)

	for i := start; i < end; i++ {
		r := m.visible[i]
		line := fmt.Sprintf("%-6d %-16s %-12d %q", r.Record.ID, r.Matcher, r.Matches, r.Needle)
		if i == m.cursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderDetails() string {
	r := m.selected()
	if r == nil {
		return ""
	}

	field := func(label, value string) string {
		return fieldLabelStyle.Render(label+": ") + fieldValueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(field("Matcher", r.Matcher))
	b.WriteString(fieldLabelStyle.Render("Needle: ") + needleStyle.Render(fmt.Sprintf("%q", r.Needle)) + "\n")
	b.WriteString(field("Haystack", fmt.Sprintf("%s (%s)", r.Record.HaystackID.Hex(), humanize.Bytes(uint64(r.Record.HaystackSize)))))
	b.WriteString(field("Searched", r.Record.CreatedAt.Local().Format(time.DateTime)))
	b.WriteString(field("Matches", fmt.Sprintf("%d", r.Matches)))
	b.WriteString(field("Offsets", formatOffsetList(r.Record.Offsets, offsetPreview)))
	return b.String()
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d searches | %d shown | %s", len(m.data.rows), len(m.visible), m.data.path))
	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("tab"), helpDescStyle.Render("pane"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
		helpKeyStyle.Render("q"), helpDescStyle.Render("quit"),
	)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func renderHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, binding := range defaultKeys.all() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("%s  %s\n", helpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)), helpDescStyle.Render(h.Desc)))
	}
	return b.String()
}
