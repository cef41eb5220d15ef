package state

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quotedesk/quotedesk/internal/quote"
)

const (
	actionSend              = "send"
	actionBulkSend          = "bulk-send"
	actionBulkDelete        = "bulk-delete"
	actionExportSpreadsheet = "export-xlsx"
	actionExportReport      = "export-pdf"
	actionExportDetail      = "export-detail"
)

func (m *Model) loadCmd() tea.Cmd {
	ctx, svc := m.ctx, m.admin
	return func() tea.Msg {
		return QuotesLoadedMsg{Err: svc.Load(ctx)}
	}
}

// exportTargets is the selection, or every matching quote when nothing is selected.
func (m *Model) exportTargets() []quote.Quote {
	if m.list.HasSelection() {
		return m.list.SelectedQuotes()
	}
	return m.list.Filtered()
}

func (m *Model) exportCmd(action string) tea.Cmd {
	quotes := m.exportTargets()
	svc := m.admin
	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch action {
		case actionExportSpreadsheet:
			path, _, err = svc.ExportSpreadsheet(quotes, "")
		case actionExportReport:
			path, _, err = svc.ExportReport(quotes, "")
		}
		return ActionDoneMsg{Action: action, Path: path, Err: err}
	}
}

func (m *Model) detailCmd(q quote.Quote) tea.Cmd {
	svc := m.admin
	return func() tea.Msg {
		path, err := svc.ExportDetail(q)
		return ActionDoneMsg{Action: actionExportDetail, Path: path, Err: err}
	}
}

func (m *Model) sendCmd(id int) tea.Cmd {
	m.loading = true
	ctx, svc := m.ctx, m.admin
	return func() tea.Msg {
		_, err := svc.Send(ctx, id)
		return ActionDoneMsg{Action: actionSend, Err: err}
	}
}

func (m *Model) bulkSendCmd(ids []int) tea.Cmd {
	m.loading = true
	ctx, svc := m.ctx, m.admin
	return func() tea.Msg {
		svc.BulkSend(ctx, ids)
		return ActionDoneMsg{Action: actionBulkSend}
	}
}

func (m *Model) bulkDeleteCmd(ids []int) tea.Cmd {
	m.loading = true
	ctx, svc := m.ctx, m.admin
	return func() tea.Msg {
		_, err := svc.BulkDelete(ctx, ids)
		return ActionDoneMsg{Action: actionBulkDelete, Err: err}
	}
}
