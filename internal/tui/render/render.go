package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/quotedesk/quotedesk/internal/colors"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
)

const (
	checkWidth           = 3
	numberWidth          = 14
	clientWidth          = 24
	statusWidth          = 10
	totalWidth           = 14
	dateWidth            = 10
	spacesBetweenColumns = 12
	defaultProjectWidth  = 20
	minProjectWidth      = 8
	checkedSymbol        = "[x]"
	uncheckedSymbol      = "[ ]"
)

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode  bool
	SearchQuery string
	Status      quote.Status
	Page        int
	Pages       int
	Matching    int
	Selected    int
	Confirm     string
	Busy        bool
	Width       int
}

// RowState defines the inputs needed to render a quote row.
type RowState struct {
	Quote   quote.Quote
	Width   int
	Cursor  bool
	Checked bool
	Busy    string
}

// Header renders the table header.
func Header(width int) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %*s  %-*s",
		checkWidth, "",
		numberWidth, "N° DEVIS",
		clientWidth, "CLIENT",
		projectWidth(width), "PROJET",
		statusWidth, "STATUT",
		totalWidth, "TOTAL TTC",
		dateWidth, "CRÉÉ LE",
	)

	return headerStyle.Render(header)
}

// Row renders a single quote row.
func Row(state RowState) string {
	rowStyle := lipgloss.NewStyle()
	if state.Cursor {
		rowStyle = rowStyle.Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	}

	check := uncheckedSymbol
	if state.Checked {
		check = checkedSymbol
	}

	q := state.Quote
	status := q.Status.Label()
	if state.Busy != "" {
		status = state.Busy + "…"
	}

	width := projectWidth(state.Width)
	row := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %*s  %-*s",
		checkWidth, check,
		numberWidth, truncate(q.QuoteNumber, numberWidth),
		clientWidth, truncate(q.ClientDisplayName(), clientWidth),
		width, truncate(orNA(q.ProjectTypeLabel()), width),
		statusWidth, truncate(status, statusWidth),
		totalWidth, format.Euros(q.GrossTotal().Float()),
		dateWidth, format.DateString(q.CreatedAt),
	)

	if !state.Cursor {
		return statusStyle(q.Status).Render(row[:checkWidth]) + rowStyle.Render(row[checkWidth:])
	}
	return rowStyle.Render(row)
}

// Empty renders the placeholder shown when no quote matches.
func Empty(searching bool) string {
	msg := "Aucun devis"
	if searching {
		msg = "Aucun devis ne correspond à la recherche"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(msg)
}

// Footer renders the footer with paging, selection and help text.
func Footer(state FooterState) string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	status := "tous"
	if state.Status != "" {
		status = state.Status.Label()
	}
	summary := fmt.Sprintf("Page %d/%d  |  %d devis  |  %d sélectionné(s)  |  statut: %s",
		max(state.Page, 1), max(state.Pages, 1), state.Matching, state.Selected, status)
	if state.Busy {
		summary += "  |  chargement…"
	}

	var help []string
	switch {
	case state.Confirm != "":
		confirmStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow)))
		return summary + "\n" + confirmStyle.Render(state.Confirm+" (y/n)")
	case state.SearchMode:
		help = append(help, "ESC: exit search", "Enter: apply", fmt.Sprintf("Search: %s", state.SearchQuery))
	default:
		help = append(help, "j/k: move", "←/→: page", "/: search", "s: status", "space: select",
			"a: page", "A: all", "c: clear", "x: excel", "p: pdf", "r: reload", "?: help", "q: quit")
	}

	return summary + "\n" + helpStyle.Render(wrap(help, state.Width))
}

// Toasts renders the active notifications, newest last.
func Toasts(items []notify.Notification, width int) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, n := range items {
		text := n.Title
		if n.Body != "" {
			text += " " + n.Body
		}
		line := toastIcon(n.Kind) + " " + text
		if width > 0 {
			line = truncate(line, width)
		}
		lines = append(lines, toastStyle(n.Kind).Render(line))
	}
	return strings.Join(lines, "\n")
}

func toastIcon(kind notify.Kind) string {
	switch kind {
	case notify.KindSuccess:
		return "✓"
	case notify.KindError:
		return "✗"
	case notify.KindWarning:
		return "!"
	default:
		return "i"
	}
}

func toastStyle(kind notify.Kind) lipgloss.Style {
	color := colors.Blue
	switch kind {
	case notify.KindSuccess:
		color = colors.Green
	case notify.KindError:
		color = colors.Red
	case notify.KindWarning:
		color = colors.Yellow
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(color)))
}

func statusStyle(s quote.Status) lipgloss.Style {
	color := ""
	switch s {
	case quote.StatusAccepted:
		color = colors.Green
	case quote.StatusRejected, quote.StatusExpired:
		color = colors.Red
	case quote.StatusSent, quote.StatusViewed:
		color = colors.Cyan
	}
	if color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(color)))
}

func projectWidth(width int) int {
	fixed := checkWidth + numberWidth + clientWidth + statusWidth + totalWidth + dateWidth
	w := width - fixed - spacesBetweenColumns
	if width == 0 || w < minProjectWidth {
		return defaultProjectWidth
	}
	return w
}

// wrap joins help items with separators, breaking lines at width.
func wrap(items []string, width int) string {
	const sep = "  |  "
	if width <= 0 {
		return strings.Join(items, sep)
	}
	var b strings.Builder
	lineLen := 0
	for i, item := range items {
		n := utf8.RuneCountInString(item)
		if i > 0 {
			if lineLen+len(sep)+n > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(sep)
				lineLen += len(sep)
			}
		}
		b.WriteString(item)
		lineLen += n
	}
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	return format.Truncate(value, width, "…")
}

func orNA(s string) string {
	if s == "" {
		return format.NA
	}
	return s
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
