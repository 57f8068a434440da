package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
)

// Renderer handles styled terminal output.
type Renderer struct {
	width  int
	styled bool // whether to emit ANSI styling

	// Text styles
	Summary lipgloss.Style
	Muted   lipgloss.Style
	Data    lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style

	// Table styles
	Header    lipgloss.Style
	Cell      lipgloss.Style
	CellMuted lipgloss.Style
}

// NewRenderer creates a renderer. Styling is enabled when writing to a TTY,
// or when forceStyled is true. NO_COLOR disables styling unconditionally.
func NewRenderer(w io.Writer, forceStyled bool) *Renderer {
	width, isTTY := terminalInfo(w)
	styled := (isTTY || forceStyled) && os.Getenv("NO_COLOR") == ""

	if styled {
		lipgloss.SetColorProfile(2) // TrueColor
	} else {
		lipgloss.SetColorProfile(0) // Ascii (no colors)
	}

	r := &Renderer{
		width:  width,
		styled: styled,
	}

	if styled {
		r.Summary = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
		r.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
		r.Data = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
		r.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
		r.Hint = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true)
		r.Header = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true)
		r.Cell = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
		r.CellMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	} else {
		r.Summary = lipgloss.NewStyle()
		r.Muted = lipgloss.NewStyle()
		r.Data = lipgloss.NewStyle()
		r.Error = lipgloss.NewStyle()
		r.Hint = lipgloss.NewStyle()
		r.Header = lipgloss.NewStyle()
		r.Cell = lipgloss.NewStyle()
		r.CellMuted = lipgloss.NewStyle()
	}

	return r
}

// terminalInfo returns the terminal width and whether the writer is a TTY.
func terminalInfo(w io.Writer) (width int, isTTY bool) {
	width = 80 // default

	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(f.Fd()); err == nil && tw >= 40 {
			width = tw
		}
		fi, err := f.Stat()
		if err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
			isTTY = true
		}
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

	data := normalizeData(resp.Data)
	r.renderData(&b, data)

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

func (r *Renderer) renderData(b *strings.Builder, data any) {
	switch d := data.(type) {
	case []map[string]any:
		if len(d) == 0 {
			b.WriteString(r.Muted.Render("(no results)"))
			b.WriteString("\n")
			return
		}
		r.renderTable(b, d)

	case map[string]any:
		r.renderObject(b, d)

	case []any:
		if len(d) == 0 {
			b.WriteString(r.Muted.Render("(no results)"))
			b.WriteString("\n")
			return
		}
		for _, item := range d {
			b.WriteString(r.Data.Render(fmt.Sprintf("%v", item)))
			b.WriteString("\n")
		}

	case string:
		b.WriteString(r.Data.Render(d))
		b.WriteString("\n")

	case nil:
		b.WriteString(r.Muted.Render("(no data)"))
		b.WriteString("\n")

	default:
		b.WriteString(r.Data.Render(fmt.Sprintf("%v", data)))
		b.WriteString("\n")
	}
}

// Column priority for table rendering (lower = higher priority).
// Tuned for model descriptor listings.
var columnPriority = map[string]int{
	"id":             1,
	"model":          1,
	"name":           2,
	"display_name":   2,
	"handle":         3,
	"provider":       4,
	"provider_name":  4,
	"tier":           5,
	"context_window": 6,
	"status":         7,
	"created_at":     8,
	"updated_at":     9,
}

// Columns to render in muted style.
var mutedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

type column struct {
	key      string
	header   string
	priority int
	muted    bool
}

func (r *Renderer) renderTable(b *strings.Builder, data []map[string]any) {
	columns := detectColumns(data)
	if len(columns) == 0 {
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Header
			}
			if col < len(columns) && columns[col].muted {
				return r.CellMuted
			}
			return r.Cell
		})

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	t.Headers(headers...)

	for _, item := range data {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatCell(item[col.key])
		}
		t.Row(row...)
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
}

// detectColumns picks scalar columns from the first row, ordered by priority
// then name so output is deterministic.
func detectColumns(data []map[string]any) []column {
	if len(data) == 0 {
		return nil
	}

	var columns []column
	for key, val := range data[0] {
		switch val.(type) {
		case map[string]any, []any, []map[string]any:
			continue // skip nested values
		}
		prio, ok := columnPriority[key]
		if !ok {
			prio = 50
		}
		columns = append(columns, column{
			key:      key,
			header:   strings.ToUpper(strings.ReplaceAll(key, "_", " ")),
			priority: prio,
			muted:    mutedColumns[key],
		})
	}

	sort.Slice(columns, func(i, j int) bool {
		if columns[i].priority != columns[j].priority {
			return columns[i].priority < columns[j].priority
		}
		return columns[i].key < columns[j].key
	})

	// Cap at 6 columns to keep tables readable on narrow terminals
	if len(columns) > 6 {
		columns = columns[:6]
	}

	return columns
}

func (r *Renderer) renderObject(b *strings.Builder, data map[string]any) {
	// Pretty-print objects as indented JSON; a probe's payload shape is
	// schema-free, so key/value flattening would lose structure.
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		b.WriteString(r.Data.Render(fmt.Sprintf("%v", data)))
		b.WriteString("\n")
		return
	}
	b.WriteString(r.Data.Render(string(pretty)))
	b.WriteString("\n")
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if len(val) > 40 {
			return val[:37] + "..."
		}
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
