package format

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/quotedesk/quotedesk/internal/colors"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool
	// HeaderColor is the color to use for headers and the separator.
	HeaderColor string
	// Separator draws the dashed line under the header.
	Separator bool
}

// DefaultTableConfig returns the configuration used by listing commands.
func DefaultTableConfig() TableConfig {
	return TableConfig{ShowHeaders: true, HeaderColor: colors.Blue, Separator: true}
}

// TableConfigFor maps the table_format setting to a configuration.
func TableConfigFor(name string) TableConfig {
	cfg := DefaultTableConfig()
	switch name {
	case "minimal":
		cfg.HeaderColor = ""
		cfg.Separator = false
	case "fancy":
		cfg.HeaderColor = colors.Bold + colors.Magenta
	}
	return cfg
}

// Column describes one table column over rows of type T.
type Column[T any] struct {
	Name string
	// Width is the column width in runes. The last column is never padded.
	Width int
	// Alignment is left (default), right or center.
	Alignment string
	Value     func(T) string
}

// Table renders rows of T as fixed-width text.
type Table[T any] struct {
	Config  TableConfig
	Columns []Column[T]
}

// NewTable creates a table with the default configuration.
func NewTable[T any](columns ...Column[T]) *Table[T] {
	return &Table[T]{Config: DefaultTableConfig(), Columns: columns}
}

// Render writes the header, separator and one line per row. Nothing is
// written for an empty row set.
func (t *Table[T]) Render(rows []T, w io.Writer) error {
	if len(rows) == 0 {
		return nil
	}
	if t.Config.ShowHeaders {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = col.Name
		}
		if err := t.writeLine(w, cells, true); err != nil {
			return err
		}
		if t.Config.Separator {
			seps := make([]string, len(t.Columns))
			for i, col := range t.Columns {
				seps[i] = strings.Repeat("-", col.Width)
			}
			if err := t.writeLine(w, seps, true); err != nil {
				return err
			}
		}
	}
	for _, row := range rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = col.Value(row)
		}
		if err := t.writeLine(w, cells, false); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table[T]) writeLine(w io.Writer, cells []string, header bool) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		col := t.Columns[i]
		align := col.Alignment
		if header {
			align = "left"
		}
		last := i == len(cells)-1
		parts[i] = fit(cell, col.Width, align, last)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	if header && t.Config.HeaderColor != "" {
		line = t.Config.HeaderColor + line + colors.Reset
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// fit pads or truncates s to width runes.
func fit(s string, width int, alignment string, last bool) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		if last {
			return s
		}
		return Truncate(s, width, "…")
	}
	if last && alignment != "right" {
		return s
	}
	pad := width - n
	switch alignment {
	case "right":
		return strings.Repeat(" ", pad) + s
	case "center":
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
