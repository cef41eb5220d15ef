package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Style selects how listing commands print their results.
type Style string

const (
	// StyleTable prints an aligned table with headers.
	StyleTable Style = "table"
	// StyleCompact prints one summary line per record.
	StyleCompact Style = "compact"
	// StyleJSON prints the raw records as indented JSON.
	StyleJSON Style = "json"
)

// ParseStyle returns the style for name, or an error naming the valid values.
func ParseStyle(name string) (Style, error) {
	switch s := Style(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return StyleTable, nil
	case StyleTable, StyleCompact, StyleJSON:
		return s, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of table, compact, json", name)
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteCompact writes one line per row using line.
func WriteCompact[T any](w io.Writer, rows []T, line func(T) string) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, line(row)); err != nil {
			return err
		}
	}
	return nil
}
