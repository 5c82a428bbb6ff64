package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	badgeStyle  = cellStyle.Foreground(lipgloss.Color("10"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Console prints tables to a terminal.
type Console struct {
	Out io.Writer
	// Styled selects lipgloss borders and colors instead of aligned plain
	// text.
	Styled bool
	// MaxWidth truncates cells wider than this. Zero means no limit.
	MaxWidth int
}

// NewConsole returns a console writing to out, styled when out is a
// terminal.
func NewConsole(out io.Writer) *Console {
	c := &Console{Out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.Styled = true
	}
	return c
}

// Print writes the table for items. Empty lists print NoData.
func Print[T any](c *Console, t Table[T], items []T) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(c.Out, NoData)
		return err
	}

	cells := t.Cells(items)
	rows := make([][]string, len(cells))
	for i, row := range cells {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = c.truncate(cell.Plain())
		}
	}

	if c.Styled {
		return c.styled(t.Headers(), rows, cells)
	}
	return c.plain(t.Headers(), rows)
}

func (c *Console) truncate(s string) string {
	if c.MaxWidth <= 0 || runewidth.StringWidth(s) <= c.MaxWidth {
		return s
	}
	return runewidth.Truncate(s, c.MaxWidth, "…")
}

func (c *Console) styled(headers []string, rows [][]string, cells [][]Cell) error {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(cells) && col < len(cells[row]) && cells[row][col].Badge {
				return badgeStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(c.Out, tbl.Render())
	return err
}

func (c *Console) plain(headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, s := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(s))
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for i, s := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(row)-1 {
				sb.WriteString(s)
				continue
			}
			sb.WriteString(padRight(s, widths[i]))
		}
		sb.WriteString("\n")
	}
	writeRow(headers)
	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	_, err := io.WriteString(c.Out, sb.String())
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
