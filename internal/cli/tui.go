package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/seqdist/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ResultListModel - Interactive batch result browser
// =============================================================================

// ResultListModel is the bubbletea model for browsing batch results.
type ResultListModel struct {
	Items      []pipeline.BatchItem
	Cursor     int
	Height     int
	Offset     int
	FailedOnly bool
}

// NewResultListModel creates a new result list model.
func NewResultListModel(items []pipeline.BatchItem) ResultListModel {
	return ResultListModel{
		Items:  items,
		Height: 15,
	}
}

// visible returns the indices of the items currently listed.
func (m ResultListModel) visible() []int {
	idx := make([]int, 0, len(m.Items))
	for i, it := range m.Items {
		if !m.FailedOnly || it.Err != nil {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m ResultListModel) Init() tea.Cmd {
	return nil
}

func (m ResultListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.visible())
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
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "f":
			m.FailedOnly = !m.FailedOnly
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Batch Results"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f failed only  q quit"))
	b.WriteString("\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(listDimStyle.Render("  no results"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(visible) {
		end = len(visible)
	}
	page := make([]pipeline.BatchItem, 0, end-m.Offset)
	for _, i := range visible[m.Offset:end] {
		page = append(page, m.Items[i])
	}
	rows := batchRows(page)
	for i := range rows {
		cursor := "  "
		if m.Offset+i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = append([]string{cursor}, rows[i]...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(append([]string{""}, batchHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < 0 || row >= len(page) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Offset+row == m.Cursor {
				base = base.Bold(true)
			}
			if page[row].Err != nil {
				return base.Foreground(colorRed)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if sel := m.Items[visible[m.Cursor]]; sel.Err != nil {
		b.WriteString(StyleError.Render(sel.Err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d failed", m.Cursor+1, len(visible), countFailed(m.Items))))

	return b.String()
}
