package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wsgraph/pkg/devshell"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorMuted)

// MenuModel is the bubbletea model for interactive dev-shell command
// selection.
type MenuModel struct {
	Commands []devshell.Command
	Cursor   int
	Selected *devshell.Command
	Height   int
	Offset   int
}

// NewMenuModel creates a new menu model.
func NewMenuModel(m devshell.Menu) MenuModel {
	return MenuModel{
		Commands: m.Commands,
		Height:   15,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Commands)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Commands) == 0 {
				return m, tea.Quit
			}
			c := m.Commands[m.Cursor]
			m.Selected = &c
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dev shell commands"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ run  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Commands))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Commands[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, c.Name, c.Category, c.Help})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "Command", "Category", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorMuted)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(m.Commands) > 0 {
		sel := m.Commands[m.Cursor]
		b.WriteString("  " + styleCommand.Render(sel.Command))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Commands))))
	}
	return b.String()
}

// renderMenu formats the menu grouped by category, as printed on shell entry.
func renderMenu(m devshell.Menu) string {
	var b strings.Builder
	width := 0
	for _, c := range m.Commands {
		width = max(width, len(c.Name))
	}
	nameStyle := styleCommand.Width(width + 2)

	for i, cat := range m.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		title := cat
		if title == "" {
			title = "general"
		}
		b.WriteString(StyleTitle.Render("["+title+"]") + "\n")
		for _, c := range m.InCategory(cat) {
			b.WriteString("  " + nameStyle.Render(c.Name) + StyleDim.Render(c.Help) + "\n")
		}
	}
	if len(m.Packages) > 0 {
		b.WriteString("\n" + StyleTitle.Render("[packages]") + "\n")
		b.WriteString("  " + StyleDim.Render(strings.Join(m.Packages, " ")) + "\n")
	}
	return b.String()
}
