package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-runewidth"

	"github.com/basecamp/places-cli/internal/tui"
)

// Renderer handles styled terminal output.
type Renderer struct {
	width  int
	styled bool

	Summary   lipgloss.Style
	Muted     lipgloss.Style
	Data      lipgloss.Style
	Error     lipgloss.Style
	Hint      lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	CellMuted lipgloss.Style
}

// NewRenderer creates a renderer with the default theme.
// Styling is enabled when writing to a TTY, or when forceStyled is true.
func NewRenderer(w io.Writer, forceStyled bool) *Renderer {
	return NewRendererWithTheme(w, forceStyled, tui.ResolveTheme())
}

// NewRendererWithTheme creates a renderer with a specific theme (for testing).
func NewRendererWithTheme(w io.Writer, forceStyled bool, theme tui.Theme) *Renderer {
	width, isTTY := terminalInfo(w)
	r := &Renderer{
		width:  width,
		styled: isTTY || forceStyled,
	}

	if !r.styled {
		plain := lipgloss.NewStyle()
		r.Summary, r.Muted, r.Data, r.Error = plain, plain, plain, plain
		r.Hint, r.Header, r.Cell, r.CellMuted = plain, plain, plain, plain
		return r
	}

	// Output may be piped, so use the dark palette rather than probing
	// the terminal background.
	r.Summary = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary.Dark)).Bold(true)
	r.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted.Dark))
	r.Data = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Foreground.Dark))
	r.Error = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error.Dark)).Bold(true)
	r.Hint = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted.Dark)).Italic(true)
	r.Header = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Foreground.Dark)).Bold(true)
	r.Cell = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Foreground.Dark))
	r.CellMuted = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted.Dark))
	return r
}

// terminalInfo returns the terminal width and whether the writer is a TTY.
func terminalInfo(w io.Writer) (width int, isTTY bool) {
	width = 80

	if f, ok := w.(*os.File); ok {
		if w, _, err := term.GetSize(f.Fd()); err == nil && w >= 40 {
			width = w
		}
		isTTY = term.IsTerminal(f.Fd())
	}
	return width, isTTY
}

// RenderResponse renders a success response to the writer.
func (r *Renderer) RenderResponse(w io.Writer, resp *Response) error {
	var b strings.Builder

	if resp.Summary != "" {
		b.WriteString(r.Summary.Render(resp.Summary))
		b.WriteString("\n\n")
	}

	if rows, ok := normalizeRows(resp.Data); ok {
		if len(rows) == 0 {
			b.WriteString(r.Muted.Render("(no results)"))
			b.WriteString("\n")
		} else {
			r.renderTable(&b, rows)
		}
	} else if resp.Data != nil {
		b.WriteString(r.Data.Render(fmt.Sprintf("%v", resp.Data)))
		b.WriteString("\n")
	}

	if stats, ok := resp.Meta["stats"].(map[string]any); ok {
		b.WriteString("\n")
		r.renderStats(&b, stats)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError renders an error response to the writer.
func (r *Renderer) RenderError(w io.Writer, resp *ErrorResponse) error {
	var b strings.Builder

	b.WriteString(r.Error.Render("Error: " + resp.Error))
	b.WriteString("\n")
	if resp.Hint != "" {
		b.WriteString(r.Hint.Render("Hint: " + resp.Hint))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Column priority for table rendering (lower = higher priority)
var columnPriority = map[string]int{
	"id":          1,
	"title":       2,
	"name":        2,
	"description": 3,
	"address":     4,
}

type column struct {
	key      string
	priority int
	width    int
}

func (r *Renderer) renderTable(b *strings.Builder, rows []map[string]any) {
	columns := r.selectColumns(detectColumns(rows))

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Header
			}
			if col < len(columns) && columns[col].key == "id" {
				return r.CellMuted
			}
			return r.Cell
		})

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = strings.ToUpper(strings.ReplaceAll(col.key, "_", " "))
	}
	t.Headers(headers...)

	for _, item := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = formatCell(item[col.key])
		}
		t.Row(cells...)
	}

	b.WriteString(t.String())
	b.WriteString("\n")
}

// detectColumns collects scalar keys across all rows, ordered by
// priority then name, with each column's widest cell.
func detectColumns(rows []map[string]any) []column {
	byKey := map[string]*column{}
	for _, row := range rows {
		for key, val := range row {
			switch val.(type) {
			case map[string]any, []any:
				continue
			}
			c, ok := byKey[key]
			if !ok {
				p, known := columnPriority[key]
				if !known {
					p = 10
				}
				c = &column{key: key, priority: p, width: runewidth.StringWidth(key)}
				byKey[key] = c
			}
			if w := runewidth.StringWidth(formatCell(val)); w > c.width {
				c.width = w
			}
		}
	}

	cols := make([]column, 0, len(byKey))
	for _, c := range byKey {
		cols = append(cols, *c)
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].priority != cols[j].priority {
			return cols[i].priority < cols[j].priority
		}
		return cols[i].key < cols[j].key
	})
	return cols
}

// selectColumns keeps the highest-priority columns that fit the width.
// The first column is always kept.
func (r *Renderer) selectColumns(cols []column) []column {
	const padding = 2
	used := 0
	for i, c := range cols {
		used += c.width + padding
		if i > 0 && used > r.width {
			return cols[:i]
		}
	}
	return cols
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (r *Renderer) renderStats(b *strings.Builder, stats map[string]any) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatCell(stats[k])))
	}
	b.WriteString(r.Muted.Render("Stats: " + strings.Join(parts, " ")))
	b.WriteString("\n")
}
