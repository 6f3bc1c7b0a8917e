package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	berStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateList modelState = iota
	stateSearch
	stateDetail
)

type interactiveModel struct {
	err      error
	session  *session
	filename string
	data     []byte
	units    []unit
	visible  []int
	search   textinput.Model
	view     viewport.Model
	selected int
	width    int
	height   int
	state    modelState
	loaded   bool
}

type splitMsg struct {
	err   error
	units []unit
}

func newInteractiveModel(filename string, data []byte, s *session) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "text in tree, e.g. [UNIVERSAL 8]"
	ti.Width = 40
	return &interactiveModel{
		session:  s,
		filename: filename,
		data:     data,
		search:   ti,
		view:     viewport.New(80, 20),
		state:    stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.split
}

func (m *interactiveModel) split() tea.Msg {
	units, err := m.session.split(m.data)
	return splitMsg{units: units, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-6, 3)

	case splitMsg:
		m.loaded = true
		m.units = msg.units
		m.err = msg.err
		m.filter("")

	case tea.KeyMsg:
		if m.state == stateSearch {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateList {
				m.state = stateSearch
				return m, m.search.Focus()
			}

		case "enter":
			if m.state == stateList && len(m.visible) > 0 {
				u := m.units[m.visible[m.selected]]
				m.view.SetContent(u.body)
				m.view.GotoTop()
				m.state = stateDetail
			}

		case "esc":
			if m.state == stateDetail {
				m.state = stateList
			}
		}
	}

	if m.state == stateDetail {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.filter(m.search.Value())
		m.search.Blur()
		m.state = stateList
		return m, nil
	case "esc":
		m.search.Blur()
		m.search.SetValue("")
		m.filter("")
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// filter keeps the units whose rendered body contains q.
func (m *interactiveModel) filter(q string) {
	m.visible = m.visible[:0]
	for i, u := range m.units {
		if q == "" || strings.Contains(u.body, q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = 0
}

func (m *interactiveModel) View() string {
	if !m.loaded {
		return "Splitting input..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("BER Dump"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s, framing %s", humanize.Bytes(uint64(len(m.data))), m.session.framing)))
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateSearch:
		if len(m.visible) == 0 {
			b.WriteString("No units.\n")
		}
		for row, i := range m.listWindow() {
			u := m.units[i]
			line := m.formatUnit(u)
			if row == m.selected-m.listOffset() {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Stopped at offset %d: %s", m.session.consumed, describe(m.err))))
			b.WriteString("\n")
		}
		if m.state == stateSearch {
			b.WriteString(m.search.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • / filter • q quit"))

	case stateDetail:
		u := m.units[m.visible[m.selected]]
		b.WriteString(m.formatUnit(u))
		b.WriteString("\n\n")
		b.WriteString(m.view.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) listRows() int {
	if m.height == 0 {
		return 20
	}
	return max(m.height-7, 1)
}

func (m *interactiveModel) listOffset() int {
	rows := m.listRows()
	if m.selected < rows {
		return 0
	}
	return m.selected - rows + 1
}

func (m *interactiveModel) listWindow() []int {
	off := m.listOffset()
	end := min(off+m.listRows(), len(m.visible))
	return m.visible[off:end]
}

func (m *interactiveModel) formatUnit(u unit) string {
	h := u.heading()
	switch {
	case u.err != nil:
		return errorStyle.Render(h)
	case u.ber:
		return berStyle.Render(h) + " " + firstLine(u.body)
	}
	return textStyle.Render(h) + " " + firstLine(u.body)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func runInteractive(filename string, data []byte, s *session) error {
	p := tea.NewProgram(newInteractiveModel(filename, data, s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
