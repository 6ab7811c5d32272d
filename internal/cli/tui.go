package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	tio "github.com/matzehuels/tatweel/pkg/io"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listTextStyle   = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
)

// previewRunes caps the line text shown in the table.
const previewRunes = 32

// =============================================================================
// LineListModel - Interactive line browser
// =============================================================================

// lineRow is one table row of a justified line.
type lineRow struct {
	paragraph  int
	line       int
	start, end int
	kashidas   int
	last       bool
	variations string
	text       string
}

// LineListModel is the bubbletea model for browsing the lines of a page.
type LineListModel struct {
	Title  string
	Rows   []lineRow
	Cursor int
	Height int
	Offset int
}

// NewLineListModel creates a browser over every line of doc.
func NewLineListModel(doc *tio.Document) LineListModel {
	m := LineListModel{
		Title:  fmt.Sprintf("%s · goal %d", doc.Font.Name, doc.Goal),
		Height: 15,
	}
	if doc.Page == nil {
		return m
	}
	for p, para := range doc.Page.Paragraphs {
		for i, l := range para {
			vars := make([]string, len(l.Variations))
			for k, v := range l.Variations {
				vars[k] = v.String()
			}
			m.Rows = append(m.Rows, lineRow{
				paragraph:  p,
				line:       i,
				start:      l.Start,
				end:        l.End,
				kashidas:   l.Kashidas,
				last:       l.LastLine,
				variations: strings.Join(vars, " "),
				text:       l.Shaped(doc.Text),
			})
		}
	}
	return m
}

func (m LineListModel) Init() tea.Cmd {
	return nil
}

func (m LineListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Rows); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m LineListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no lines"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(m.Table(m.Offset, end, m.Cursor))
	b.WriteString("\n")
	b.WriteString(listTextStyle.Render(m.Rows[m.Cursor].text))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// Table renders rows [from, to) with the row at cursor highlighted. A
// negative cursor highlights nothing.
func (m LineListModel) Table(from, to, cursor int) string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		r := m.Rows[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		last := ""
		if r.last {
			last = "✓"
		}
		rows = append(rows, []string{
			mark,
			fmt.Sprintf("%d.%d", r.paragraph, r.line),
			fmt.Sprintf("%d–%d", r.start, r.end),
			strconv.Itoa(r.kashidas),
			last,
			r.variations,
			truncate(r.text, previewRunes),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Line", "Bytes", "Kashida", "Last", "Variations", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			idx := from + row
			base := lipgloss.NewStyle()
			switch {
			case idx == cursor:
				return base.Foreground(colorGreen).Bold(true)
			case col == 3 && idx < len(m.Rows) && m.Rows[idx].kashidas > 0:
				return base.Foreground(colorCyan)
			case col == 1 || col == 2 || col == 4:
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
