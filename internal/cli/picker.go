package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/uniknow/c4puml/pkg/view"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// ViewPickerModel is the bubbletea model behind export --interactive.
type ViewPickerModel struct {
	Views    []*view.View
	Checked  []bool
	Cursor   int
	Height   int
	Offset   int
	Canceled bool
	Done     bool
}

func newViewPicker(views []*view.View, preselected []string) ViewPickerModel {
	m := ViewPickerModel{Views: views, Checked: make([]bool, len(views)), Height: 15}
	for i, v := range views {
		m.Checked[i] = slices.Contains(preselected, v.Key)
	}
	return m
}

func (m ViewPickerModel) Init() tea.Cmd {
	return nil
}

func (m ViewPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Views)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "x":
			if len(m.Checked) > 0 {
				m.Checked[m.Cursor] = !m.Checked[m.Cursor]
			}
		case "a":
			all := !slices.Contains(m.Checked, false)
			for i := range m.Checked {
				m.Checked[i] = !all
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// Selected returns the checked view keys in workspace order. When the
// picker was confirmed with nothing checked, the view under the cursor is
// used. A canceled picker selects nothing.
func (m ViewPickerModel) Selected() []string {
	if m.Canceled || len(m.Views) == 0 {
		return nil
	}
	var keys []string
	for i, v := range m.Views {
		if m.Checked[i] {
			keys = append(keys, v.Key)
		}
	}
	if len(keys) == 0 && m.Done {
		keys = []string{m.Views[m.Cursor].Key}
	}
	return keys
}

func (m ViewPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Views"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ export  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Views))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = "[x]"
		}
		rows = append(rows, append([]string{cursor + box}, viewRow(m.Views[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, viewHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Views) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Checked[idx] {
				base = base.Foreground(colorGreen)
			} else {
				base = base.Foreground(colorWhite)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	n := 0
	for _, c := range m.Checked {
		if c {
			n++
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Views), n)))
	return b.String()
}

var viewHeaders = []string{"Key", "Kind", "Name", "Elements", "Relationships", "Frames"}

// viewRow returns the table cells describing v.
func viewRow(v *view.View) []string {
	frames := "—"
	if n := len(v.Animations); n > 0 {
		frames = strconv.Itoa(n)
	}
	return []string{
		v.Key,
		v.Kind.String(),
		v.Name(),
		strconv.Itoa(len(v.Elements)),
		strconv.Itoa(len(v.Relationships)),
		frames,
	}
}
