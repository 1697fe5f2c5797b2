package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ifctree/pkg/pipeline"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RowBrowserModel - Interactive property table
// =============================================================================

// browserLine is one visible row of the browser.
type browserLine struct {
	row    *props.Row
	depth  int
	parent int // index of the parent line, -1 for roots
}

// RowBrowserModel is the bubbletea model for browsing a property table.
// Element rows start expanded one level; everything below is collapsed.
type RowBrowserModel struct {
	Title    string
	Rows     []*props.Row
	Expanded map[*props.Row]bool
	Cursor   int
	Height   int
	Offset   int

	lines []browserLine
}

// NewRowBrowserModel creates a browser over rows.
func NewRowBrowserModel(title string, rows []*props.Row) RowBrowserModel {
	m := RowBrowserModel{
		Title:    title,
		Rows:     rows,
		Expanded: make(map[*props.Row]bool),
		Height:   20,
	}
	for _, r := range rows {
		m.Expanded[r] = true
	}
	m.refresh()
	return m
}

// refresh recomputes the visible lines after the expansion state changed.
func (m *RowBrowserModel) refresh() {
	m.lines = m.lines[:0]
	var walk func(r *props.Row, depth, parent int)
	walk = func(r *props.Row, depth, parent int) {
		idx := len(m.lines)
		m.lines = append(m.lines, browserLine{row: r, depth: depth, parent: parent})
		if !m.Expanded[r] {
			return
		}
		for _, c := range r.Children {
			walk(c, depth+1, idx)
		}
	}
	for _, r := range m.Rows {
		walk(r, 0, -1)
	}
	if m.Cursor >= len(m.lines) {
		m.Cursor = max(len(m.lines)-1, 0)
	}
	m.scroll()
}

// scroll keeps the cursor inside the window.
func (m *RowBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Visible returns the number of visible lines.
func (m RowBrowserModel) Visible() int { return len(m.lines) }

// Current returns the row under the cursor.
func (m RowBrowserModel) Current() *props.Row {
	if len(m.lines) == 0 {
		return nil
	}
	return m.lines[m.Cursor].row
}

func (m RowBrowserModel) Init() tea.Cmd {
	return nil
}

func (m RowBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.lines)-1 {
				m.Cursor++
				m.scroll()
			}
		case "enter", " ":
			if r := m.Current(); r.HasChildren() {
				m.Expanded[r] = !m.Expanded[r]
				m.refresh()
			}
		case "right", "l":
			if r := m.Current(); r.HasChildren() && !m.Expanded[r] {
				m.Expanded[r] = true
				m.refresh()
			}
		case "left", "h":
			if len(m.lines) == 0 {
				break
			}
			line := m.lines[m.Cursor]
			if m.Expanded[line.row] && line.row.HasChildren() {
				m.Expanded[line.row] = false
				m.refresh()
			} else if line.parent >= 0 {
				m.Cursor = line.parent
				m.scroll()
			}
		case "E":
			for _, r := range m.Rows {
				r.Walk(func(row *props.Row, _ int) bool {
					if row.HasChildren() {
						m.Expanded[row] = true
					}
					return true
				})
			}
			m.refresh()
		case "C":
			clear(m.Expanded)
			m.Cursor = 0
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m RowBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  ←/→ collapse/expand  E/C all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.lines))
	for i := m.Offset; i < end; i++ {
		line := m.lines[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if line.row.HasChildren() {
			marker = "+ "
			if m.Expanded[line.row] {
				marker = "- "
			}
		}

		text := cursor + strings.Repeat("  ", line.depth) + marker + rowLabel(line.row)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(text))
		case line.row.HasChildren():
			b.WriteString(listNormalStyle.Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.lines)), len(m.lines))))

	return b.String()
}

// =============================================================================
// Model Tables
// =============================================================================

// modelsTable renders stored models as a table.
func modelsTable(models []store.ModelInfo) string {
	rows := make([][]string, len(models))
	for i, m := range models {
		rows[i] = []string{string(m.ID), m.Name, strconv.Itoa(m.Entities)}
	}
	return renderTable([]string{"ID", "Name", "Entities"}, rows, 2)
}

// workspaceTable renders the models loaded into a workspace.
func workspaceTable(models []pipeline.Model) string {
	rows := make([][]string, len(models))
	for i, m := range models {
		src := m.Path
		if src == "" {
			src = string(m.Source)
		}
		rows[i] = []string{string(m.Info.ID), m.Info.Name, strconv.Itoa(m.Info.Entities), src}
	}
	return renderTable([]string{"ID", "Name", "Entities", "Source"}, rows, 2)
}

// renderTable draws a bordered table; numCol is styled as a number.
func renderTable(headers []string, rows [][]string, numCol int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == numCol:
				return base.Inherit(StyleNumber)
			case col == 0:
				return base.Inherit(StyleHighlight)
			}
			return base
		})
	return t.Render()
}
