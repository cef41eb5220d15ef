package state

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/notify"
	"github.com/quotedesk/quotedesk/internal/quote"
)

type fixture struct {
	model   *Model
	backend *api.MockQuoteService
	queue   *notify.Queue
	list    *listing.Controller
}

func newFixture(t *testing.T, quotes []quote.Quote) fixture {
	t.Helper()
	backend := new(api.MockQuoteService)
	queue := notify.NewQueue(notify.WithLifetimes(notify.Lifetimes{}))
	list := listing.New(listing.WithPageSize(2))
	list.SetQuotes(quotes)
	svc := admin.New(backend, facade.New(loader.New(), queue), list,
		admin.WithExportDir(t.TempDir()),
		admin.WithClock(func() time.Time { return time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC) }))
	m := NewModel(context.Background(), svc, queue)
	t.Cleanup(func() {
		m.Close()
		backend.AssertExpectations(t)
	})
	return fixture{model: m, backend: backend, queue: queue, list: list}
}

func sampleQuotes(n int) []quote.Quote {
	quotes := make([]quote.Quote, n)
	for i := range quotes {
		quotes[i] = quote.Quote{
			ID:          i + 1,
			QuoteNumber: fmt.Sprintf("DEV-%04d", i+1),
			ClientName:  fmt.Sprintf("Client %d", i+1),
			Status:      quote.StatusDraft,
			TotalPrice:  quote.Decimal(100 * (i + 1)),
		}
	}
	quotes[n-1].Status = quote.StatusSent
	return quotes
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func titles(q *notify.Queue) []string {
	var out []string
	for _, n := range q.List() {
		out = append(out, string(n.Kind)+":"+n.Title)
	}
	return out
}

func TestLoadCmd(t *testing.T) {
	fx := newFixture(t, nil)
	fx.backend.On("ListQuotes", mock.Anything, quote.Status("")).Return(sampleQuotes(3), nil)
	fx.backend.On("Statistics", mock.Anything).Return(quote.ServerStatistics{TotalQuotes: 3, TotalAmount: 600}, nil)

	msg := fx.model.loadCmd()()
	require.IsType(t, QuotesLoadedMsg{}, msg)
	require.NoError(t, msg.(QuotesLoadedMsg).Err)
	press(fx.model, msg)

	assert.Len(t, fx.list.Quotes(), 3)
	view := fx.model.View()
	assert.Contains(t, view, "DEV-0001")
	assert.Contains(t, view, "DEV-0002")
	assert.NotContains(t, view, "DEV-0003")
	assert.Contains(t, view, "3 devis")
	assert.Contains(t, view, "Page 1/2")
}

func TestLoadFailureIsToasted(t *testing.T) {
	fx := newFixture(t, sampleQuotes(2))
	fx.backend.On("ListQuotes", mock.Anything, quote.Status("")).Return(nil, &api.APIError{Status: 500})
	fx.backend.On("Statistics", mock.Anything).Return(quote.ServerStatistics{}, &api.APIError{Status: 500})

	_, cmd := fx.model.Update(runes("r"))
	require.NotNil(t, cmd)
	press(fx.model, cmd())

	assert.Empty(t, fx.list.Quotes())
	assert.Len(t, fx.queue.List(), 1)
	assert.Equal(t, notify.KindError, fx.queue.List()[0].Kind)
	assert.Contains(t, fx.model.View(), "Aucun devis")
}

func TestCursorAndPaging(t *testing.T) {
	fx := newFixture(t, sampleQuotes(5))
	m := fx.model

	press(m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 1, m.uiState.GetCursor(), "cursor is clamped to the page")
	press(m, key(tea.KeyUp))
	assert.Equal(t, 0, m.uiState.GetCursor())

	press(m, runes("j"), key(tea.KeyRight))
	assert.Equal(t, 2, fx.list.CurrentPage())
	assert.Equal(t, 0, m.uiState.GetCursor(), "page change resets the cursor")

	press(m, runes("G"))
	assert.Equal(t, 3, fx.list.CurrentPage())
	press(m, key(tea.KeyRight))
	assert.Equal(t, 3, fx.list.CurrentPage())

	press(m, key(tea.KeyLeft), runes("g"))
	assert.Equal(t, 1, fx.list.CurrentPage())
}

func TestSelectionKeys(t *testing.T) {
	fx := newFixture(t, sampleQuotes(5))
	m := fx.model

	press(m, key(tea.KeySpace))
	assert.Equal(t, []int{1}, fx.list.Selected())
	press(m, key(tea.KeySpace))
	assert.False(t, fx.list.HasSelection())

	press(m, runes("a"))
	assert.Equal(t, []int{1, 2}, fx.list.Selected())
	press(m, runes("a"))
	assert.False(t, fx.list.HasSelection())

	press(m, runes("A"))
	assert.Equal(t, 5, fx.list.SelectedCount())
	assert.Contains(t, m.View(), "5 sélectionné(s)")

	press(m, runes("c"))
	assert.Zero(t, fx.list.SelectedCount())
}

func TestStatusCycle(t *testing.T) {
	fx := newFixture(t, sampleQuotes(5))

	press(fx.model, runes("s"))
	assert.Equal(t, quote.StatusDraft, fx.list.Status())
	assert.Len(t, fx.list.Filtered(), 4)

	press(fx.model, runes("s"))
	assert.Equal(t, quote.StatusSent, fx.list.Status())
	assert.Len(t, fx.list.Filtered(), 1)

	for range len(quote.Statuses) - 1 {
		press(fx.model, runes("s"))
	}
	assert.Equal(t, quote.Status(""), fx.list.Status())
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, quote.StatusDraft, nextStatus(""))
	assert.Equal(t, quote.Status(""), nextStatus(quote.StatusExpired))
	assert.Equal(t, quote.Status(""), nextStatus("unknown"))
}

func TestSearchMode(t *testing.T) {
	fx := newFixture(t, sampleQuotes(5))
	m := fx.model

	press(m, runes("j"), runes("/"))
	require.True(t, m.uiState.IsSearchMode())

	press(m, runes("0004"))
	assert.Equal(t, "0004", fx.list.Search())
	assert.Len(t, fx.list.Filtered(), 1)
	assert.Equal(t, 0, m.uiState.GetCursor())
	assert.Contains(t, m.View(), "Search: 0004")

	press(m, runes("q"))
	assert.True(t, m.uiState.IsSearchMode(), "q is text while searching")
	assert.Equal(t, "0004q", fx.list.Search())

	press(m, key(tea.KeyBackspace), key(tea.KeyEnter))
	assert.False(t, m.uiState.IsSearchMode())
	assert.Equal(t, "0004", fx.list.Search())

	press(m, runes("/"), key(tea.KeyEsc))
	assert.False(t, m.uiState.IsSearchMode())
	assert.Empty(t, fx.list.Search())
	assert.Len(t, fx.list.Filtered(), 5)
}

func TestBulkDeleteConfirmation(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	m := fx.model
	fx.backend.On("BulkDeleteQuotes", mock.Anything, []int{1, 2}).Return(api.BulkDeleteResult{Deleted: 2}, nil)
	fx.backend.On("ListQuotes", mock.Anything, quote.Status("")).Return(sampleQuotes(3)[2:], nil)
	fx.backend.On("Statistics", mock.Anything).Return(quote.ServerStatistics{TotalQuotes: 1}, nil)

	press(m, runes("a"), runes("D"))
	assert.Equal(t, "Supprimer 2 devis ?", m.uiState.PendingConfirmation())
	assert.Contains(t, m.View(), "Supprimer 2 devis ? (y/n)")

	cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.uiState.PendingConfirmation())

	msg := cmd()
	require.NoError(t, msg.(ActionDoneMsg).Err)
	press(m, msg)

	assert.Equal(t, []string{"success:2 devis supprimés"}, titles(fx.queue))
	assert.Len(t, fx.list.Quotes(), 1)
	assert.False(t, fx.list.HasSelection(), "deleted ids leave the selection")
}

func TestConfirmationDeclined(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	m := fx.model

	press(m, key(tea.KeySpace), runes("S"))
	assert.Equal(t, "Envoyer 1 devis ?", m.uiState.PendingConfirmation())

	press(m, runes("x"))
	assert.NotEmpty(t, m.uiState.PendingConfirmation(), "other keys are ignored while confirming")

	cmd := press(m, runes("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.uiState.PendingConfirmation())
	assert.Equal(t, []int{1}, fx.list.Selected())
}

func TestBulkActionWithoutSelection(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))

	press(fx.model, runes("D"))
	assert.Empty(t, fx.model.uiState.PendingConfirmation())
	assert.Equal(t, []string{"info:" + MsgNoSelection}, titles(fx.queue))
}

func TestBulkSend(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	fx.backend.On("SendQuote", mock.Anything, 1).Return(api.SendResult{}, nil)
	fx.backend.On("SendQuote", mock.Anything, 2).Return(api.SendResult{}, &api.APIError{Status: 500})
	fx.backend.On("ListQuotes", mock.Anything, quote.Status("")).Return(sampleQuotes(3), nil)
	fx.backend.On("Statistics", mock.Anything).Return(quote.ServerStatistics{}, nil)

	cmd := press(fx.model, runes("a"), runes("S"), key(tea.KeyEnter))
	require.NotNil(t, cmd)
	press(fx.model, cmd())

	assert.Equal(t, []string{
		"success:1 devis envoyés avec succès",
		"error:1 devis n'ont pas pu être envoyés",
	}, titles(fx.queue))
}

func TestSendUnderCursor(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	fx.backend.On("SendQuote", mock.Anything, 2).Return(api.SendResult{Message: "ok"}, nil)
	fx.backend.On("ListQuotes", mock.Anything, quote.Status("")).Return(sampleQuotes(3), nil)
	fx.backend.On("Statistics", mock.Anything).Return(quote.ServerStatistics{}, nil)

	cmd := press(fx.model, runes("j"), key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, fx.model.loading)

	press(fx.model, cmd())
	assert.False(t, fx.model.loading)
	assert.Equal(t, []string{"success:" + admin.MsgQuoteSent}, titles(fx.queue))
}

func TestExportKeys(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	m := fx.model

	msg := press(m, runes("x"))()
	done := msg.(ActionDoneMsg)
	require.NoError(t, done.Err)
	assert.Equal(t, actionExportSpreadsheet, done.Action)
	assert.FileExists(t, done.Path)
	assert.Equal(t, []string{"success:3 devis exportés en Excel"}, titles(fx.queue))

	fx.queue.Clear()
	press(m, key(tea.KeySpace))
	done = press(m, runes("p"))().(ActionDoneMsg)
	require.NoError(t, done.Err)
	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, []string{"success:Rapport PDF généré pour 1 devis"}, titles(fx.queue))

	fx.queue.Clear()
	done = press(m, runes("d"))().(ActionDoneMsg)
	require.NoError(t, done.Err)
	assert.Equal(t, actionExportDetail, done.Action)
	assert.FileExists(t, done.Path)
}

func TestExportNothing(t *testing.T) {
	fx := newFixture(t, sampleQuotes(3))
	press(fx.model, runes("/"), runes("nothing-matches"), key(tea.KeyEnter))

	done := press(fx.model, runes("x"))().(ActionDoneMsg)
	assert.NoError(t, done.Err)
	assert.Empty(t, done.Path)
	assert.Equal(t, []string{"warning:" + admin.MsgNothingToExport}, titles(fx.queue))
}

func TestToastSubscription(t *testing.T) {
	fx := newFixture(t, sampleQuotes(1))

	fx.queue.Success("Devis envoyé", "")
	msg := waitForToast(fx.model.events)()
	require.IsType(t, ToastMsg{}, msg)
	assert.Equal(t, notify.EventAdded, msg.(ToastMsg).Event.Type)

	cmd := press(fx.model, msg)
	assert.NotNil(t, cmd, "the model keeps listening")
	assert.Contains(t, fx.model.View(), "✓ Devis envoyé")

	fx.model.Close()
	assert.Nil(t, waitForToast(fx.model.events)())
	assert.Nil(t, waitForToast(nil))
}

func TestHelpOverlay(t *testing.T) {
	fx := newFixture(t, sampleQuotes(1))

	press(fx.model, runes("?"))
	view := fx.model.View()
	assert.Contains(t, view, "Raccourcis")
	assert.Contains(t, view, "Cycle the status filter")

	press(fx.model, runes("j"))
	assert.False(t, fx.model.uiState.IsHelpShown())
	assert.Contains(t, fx.model.View(), "DEV-0001")
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), key(tea.KeyCtrlC)} {
		fx := newFixture(t, sampleQuotes(1))
		cmd := press(fx.model, msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowSize(t *testing.T) {
	fx := newFixture(t, sampleQuotes(1))
	press(fx.model, tea.WindowSizeMsg{Width: 160, Height: 40})
	assert.Equal(t, 160, fx.model.uiState.GetWidth())
	assert.Equal(t, 40, fx.model.uiState.GetHeight())

	press(fx.model, tea.WindowSizeMsg{})
	assert.Equal(t, defaultWidth, fx.model.uiState.GetWidth())
}
