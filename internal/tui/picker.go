// Package tui implements the interactive conversation picker used by
// batch export when no conversation ids are given on the command line.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"chatgpt-export/internal/api"
)

type model struct {
	items    []api.ConversationItem
	visible  []int // indices into items, after filtering
	cursor   int
	offset   int
	selected map[string]bool
	filter   textinput.Model
	width    int
	height   int
	done     bool
}

func initialModel(items []api.ConversationItem) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		items:    items,
		selected: make(map[string]bool),
		filter:   ti,
	}
	m.applyFilter()
	return m
}

// Run shows the picker and returns the chosen conversations in input
// order. A nil slice means the user cancelled.
func Run(items []api.ConversationItem) ([]api.ConversationItem, error) {
	p := tea.NewProgram(initialModel(items), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if !fm.done {
		return nil, nil
	}
	var chosen []api.ConversationItem
	for _, it := range fm.items {
		if fm.selected[it.ID] {
			chosen = append(chosen, it)
		}
	}
	return chosen, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, it := range m.items {
		if query == "" || strings.Contains(strings.ToLower(it.Title), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Confirm):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.adjustScroll()
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			m.adjustScroll()
			return m, nil

		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.visible) {
				id := m.items[m.visible[m.cursor]].ID
				m.selected[id] = !m.selected[id]
			}
			return m, nil

		case key.Matches(msg, keys.All):
			// if everything visible is selected, clear; otherwise select all
			all := true
			for _, i := range m.visible {
				if !m.selected[m.items[i].ID] {
					all = false
					break
				}
			}
			for _, i := range m.visible {
				m.selected[m.items[i].ID] = !all
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *model) adjustScroll() {
	listHeight := m.listHeight()
	if listHeight < 1 {
		listHeight = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
}

// listHeight is the terminal height minus the filter line and status bar.
func (m model) listHeight() int {
	return m.height - 2
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	listHeight := m.listHeight()
	rendered := 0
	for pos := m.offset; pos < len(m.visible) && rendered < listHeight; pos++ {
		it := m.items[m.visible[pos]]

		check := "[ ]"
		line := ""
		if m.selected[it.ID] {
			check = styleChecked.Render("[x]")
		}
		date := it.UpdateTime
		if len(date) >= 10 {
			date = date[:10]
		}

		title := strings.ReplaceAll(it.Title, "\n", " ")
		titleMax := m.width - 2 - 4 - 11 - 2
		if titleMax < 0 {
			titleMax = 0
		}
		if runewidth.StringWidth(title) > titleMax {
			title = runewidth.Truncate(title, titleMax, "")
		}

		if pos == m.cursor {
			line = styleCursor.Render("> ") + check + " " + styleDate.Render(date) + " " + title
		} else {
			line = "  " + check + " " + styleDate.Render(date) + " " + title
		}
		b.WriteString(line)
		b.WriteString("\n")
		rendered++
	}
	for rendered < listHeight {
		b.WriteString("\n")
		rendered++
	}

	selected := 0
	for _, v := range m.selected {
		if v {
			selected++
		}
	}
	status := fmt.Sprintf("%d/%d selected | tab toggle | C-a all | enter export | esc quit",
		selected, len(m.items))
	b.WriteString(styleStatusBar.Render(status))

	return b.String()
}
