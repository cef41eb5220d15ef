package state

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/tui/service"
)

// statusCycle is the order the status filter steps through; "" shows all.
var statusCycle = append([]quote.Status{""}, quote.Statuses...)

// Model is the BubbleTea model of the admin console.
type Model struct {
	ctx     context.Context
	admin   *admin.Service
	list    *listing.Controller
	queue   *notify.Queue
	help    service.HelpProvider
	uiState *UIState

	events      <-chan notify.Event
	unsubscribe func()

	loading bool
	logger  logging.Logger
}

// NewModel builds a console over svc, subscribed to q.
func NewModel(ctx context.Context, svc *admin.Service, q *notify.Queue) *Model {
	events, unsubscribe := q.Subscribe()
	return &Model{
		ctx:         ctx,
		admin:       svc,
		list:        svc.List(),
		queue:       q,
		help:        service.NewDefaultHelpProvider(),
		uiState:     NewUIState(),
		events:      events,
		unsubscribe: unsubscribe,
		logger:      logging.With("component", "tui"),
	}
}

// Init loads the quotes and starts listening to the notification queue.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), waitForToast(m.events))
}

// Close cancels the queue subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.uiState.SetWidth(msg.Width)
		m.uiState.SetHeight(msg.Height)
		return m, nil

	case QuotesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.logger.Warn("load failed", "error", msg.Err)
		}
		m.clampCursor()
		return m, nil

	case ActionDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.logger.Warn("action failed", "action", msg.Action, "error", msg.Err)
		} else {
			m.logger.Debug("action done", "action", msg.Action, "path", msg.Path)
		}
		m.clampCursor()
		return m, nil

	case ToastMsg:
		return m, waitForToast(m.events)
	}
	return m, nil
}

// waitForToast blocks on the next queue event. A closed channel ends the loop.
func waitForToast(events <-chan notify.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ToastMsg{Event: ev}
	}
}

// current returns the quote under the cursor.
func (m *Model) current() (quote.Quote, bool) {
	page := m.list.Page()
	cursor := m.uiState.GetCursor()
	if cursor < 0 || cursor >= len(page) {
		return quote.Quote{}, false
	}
	return page[cursor], true
}

func (m *Model) clampCursor() {
	m.uiState.SetCursor(m.uiState.GetCursor(), len(m.list.Page()))
}

// nextStatus returns the filter following s in statusCycle.
func nextStatus(s quote.Status) quote.Status {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}
