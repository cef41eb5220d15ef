package state

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/tui/render"
)

// View renders the console.
func (m *Model) View() string {
	width := m.uiState.GetWidth()
	if m.uiState.IsHelpShown() {
		return m.renderHelp()
	}

	var s strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true)
	s.WriteString(titleStyle.Render("Devis"))
	if stats := m.statisticsLine(); stats != "" {
		s.WriteString("  ")
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(stats))
	}
	s.WriteString("\n\n")

	s.WriteString(render.Header(width))
	s.WriteString("\n")

	page := m.list.Page()
	if len(page) == 0 {
		s.WriteString(render.Empty(m.list.Search() != "" || m.list.Status() != ""))
		s.WriteString("\n")
	}
	cursor := m.uiState.GetCursor()
	for i, q := range page {
		s.WriteString(render.Row(render.RowState{
			Quote:   q,
			Width:   width,
			Cursor:  i == cursor,
			Checked: m.list.IsSelected(q.ID),
			Busy:    m.admin.Busy(q.ID),
		}))
		s.WriteString("\n")
	}

	if m.uiState.IsSearchMode() {
		s.WriteString("\n")
		s.WriteString(m.uiState.SearchInput().View())
	}

	if toasts := render.Toasts(m.queue.List(), width); toasts != "" {
		s.WriteString("\n")
		s.WriteString(toasts)
	}

	s.WriteString("\n")
	s.WriteString(render.Footer(render.FooterState{
		SearchMode:  m.uiState.IsSearchMode(),
		SearchQuery: m.uiState.GetSearchQuery(),
		Status:      m.list.Status(),
		Page:        m.list.CurrentPage(),
		Pages:       m.list.TotalPages(),
		Matching:    len(m.list.Filtered()),
		Selected:    m.list.SelectedCount(),
		Confirm:     m.uiState.PendingConfirmation(),
		Busy:        m.loading || m.admin.Facade().Loader().IsBusy(),
		Width:       width,
	}))

	return s.String()
}

func (m *Model) statisticsLine() string {
	stats := m.admin.Statistics()
	if stats == nil {
		return ""
	}
	return fmt.Sprintf("%d devis  |  %s  |  conversion %s",
		stats.TotalQuotes,
		format.Euros(stats.TotalAmount.Float()),
		format.Percentage(stats.ConversionRate.Float(), 1))
}

func (m *Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Bold(true).Width(8)
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("Raccourcis"))
	s.WriteString("\n\n")
	for _, h := range m.help.GetAllHelp() {
		s.WriteString(keyStyle.Render(h.Key))
		s.WriteString(h.Description)
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("any key: close  |  q: quit"))
	return s.String()
}
