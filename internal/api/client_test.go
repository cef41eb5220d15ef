package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/apitest"
	"github.com/quotedesk/quotedesk/internal/quote"
)

type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	expired int
	rotated int
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) RotateTokens(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	m.rotated++
	return nil
}

func (m *memTokens) Expire(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	m.expired++
}

func setup(t *testing.T) (*apitest.Server, *Client, *memTokens) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	access, refresh := srv.IssueTokens()
	tokens := &memTokens{access: access, refresh: refresh}
	return srv, New(srv.URL, WithTokens(tokens), WithRateLimit(0, 0)), tokens
}

func TestListQuotesAcceptsBothShapes(t *testing.T) {
	srv, c, _ := setup(t)
	srv.Seed(quote.Quote{ClientName: "A", Status: quote.StatusSent}, quote.Quote{ClientName: "B"})

	quotes, err := c.ListQuotes(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	srv.Paginate(true)
	quotes, err = c.ListQuotes(context.Background(), quote.StatusSent)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "A", quotes[0].ClientName)
}

func TestDecodeList(t *testing.T) {
	items, err := decodeList[int]([]byte(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, items)

	items, err = decodeList[int]([]byte(`{"count":1,"results":[3]}`))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, items)

	items, err = decodeList[int]([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = decodeList[int]([]byte(`{"detail":"x"}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv, c, tokens := setup(t)
	_, err := c.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer " + tokens.AccessToken()}, srv.AuthHeaders())
}

func TestUnauthorizedRefreshesOnceAndRetries(t *testing.T) {
	srv, c, tokens := setup(t)
	srv.Seed(quote.Quote{ClientName: "A"})
	stale := tokens.AccessToken()
	srv.ExpireAccessTokens()

	quotes, err := c.ListQuotes(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
	assert.Equal(t, 1, srv.RefreshCount())
	assert.Equal(t, 2, srv.Hits("GET /api/quotes/"))
	assert.NotEqual(t, stale, tokens.AccessToken())

	headers := srv.AuthHeaders()
	require.Len(t, headers, 2)
	assert.Equal(t, "Bearer "+stale, headers[0])
	assert.Equal(t, "Bearer "+tokens.AccessToken(), headers[1])
}

func TestSecondUnauthorizedIsNotRefreshedAgain(t *testing.T) {
	srv, c, tokens := setup(t)
	srv.FailNext("GET /api/quotes/", apitest.Failure{Status: http.StatusUnauthorized, Body: map[string]string{"detail": "nope"}, Times: 5})

	_, err := c.ListQuotes(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, srv.RefreshCount())
	assert.Equal(t, 2, srv.Hits("GET /api/quotes/"))
	assert.Zero(t, tokens.expired)
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	srv, c, tokens := setup(t)
	srv.ExpireAccessTokens()
	srv.FailRefresh(true)

	_, err := c.ListQuotes(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, tokens.expired)
	assert.Empty(t, tokens.AccessToken())
	assert.Equal(t, 1, srv.Hits("GET /api/quotes/"))
}

func TestMissingRefreshTokenExpiresSession(t *testing.T) {
	srv, c, tokens := setup(t)
	tokens.refresh = ""
	srv.ExpireAccessTokens()

	_, err := c.ListQuotes(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Zero(t, srv.RefreshCount())
	assert.Equal(t, 1, tokens.expired)
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	srv, c, _ := setup(t)
	srv.ExpireAccessTokens()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.ListQuotes(context.Background(), "")
		}()
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, srv.RefreshCount())
}

func TestLoginFailureDoesNotRefresh(t *testing.T) {
	srv, c, tokens := setup(t)
	_, err := c.Login(context.Background(), Credentials{Username: "admin", Password: "wrong"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, map[string]any{"detail": "No active account found with the given credentials"}, apiErr.Payload)
	assert.Zero(t, srv.RefreshCount())
	assert.Zero(t, tokens.expired)
}

func TestNetworkErrorHasNoStatus(t *testing.T) {
	srv := apitest.New()
	url := srv.URL
	srv.Close()

	c := New(url, WithRateLimit(0, 0))
	_, err := c.ProjectTypes(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNetwork())
	assert.Zero(t, StatusOf(err))
}

func TestQuoteActions(t *testing.T) {
	srv, c, _ := setup(t)
	ids := srv.Seed(quote.Quote{QuoteNumber: "DEV-1", ClientEmail: "a@example.com"}, quote.Quote{QuoteNumber: "DEV-2"}, quote.Quote{QuoteNumber: "DEV-3"})
	ctx := context.Background()

	sent, err := c.SendQuote(ctx, ids[0])
	require.NoError(t, err)
	assert.NotEmpty(t, sent.SentAt)
	q, _ := srv.Quote(ids[0])
	assert.Equal(t, quote.StatusSent, q.Status)

	dup, err := c.DuplicateQuote(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, quote.StatusDraft, dup.Status)
	assert.NotEqual(t, ids[0], dup.ID)

	require.NoError(t, c.RejectQuote(ctx, ids[1], "trop cher"))
	q, _ = srv.Quote(ids[1])
	assert.Equal(t, quote.StatusRejected, q.Status)

	patched, err := c.PatchQuote(ctx, ids[2], map[string]any{"status": "accepted"})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusAccepted, patched.Status)

	pdf, err := c.DownloadPDF(ctx, ids[2], "DEV-3")
	require.NoError(t, err)
	assert.Equal(t, "devis_DEV-3.pdf", pdf.Filename)
	assert.Contains(t, string(pdf.Data), "%PDF")

	res, err := c.BulkDeleteQuotes(ctx, []int{ids[1], ids[2], 999})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)

	require.NoError(t, c.DeleteQuote(ctx, ids[0]))
	_, err = c.GetQuote(ctx, ids[0])
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestPublicQuoteAndSign(t *testing.T) {
	srv, c, _ := setup(t)
	srv.Seed(quote.Quote{QuoteNumber: "DEV-9", SignatureToken: "tok", Status: quote.StatusSent})
	ctx := context.Background()

	q, err := c.PublicQuote(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, quote.StatusViewed, q.Status)

	_, err = c.SignQuote(ctx, "tok", Signature{ClientName: "Ada"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, map[string]any{"error": "Signature requise"}, apiErr.Payload)

	res, err := c.SignQuote(ctx, "tok", Signature{SignatureData: "data:image/png;base64,AA", ClientName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusAccepted, res.Quote.Status)
}

func TestTablesAndPortfolio(t *testing.T) {
	_, c, _ := setup(t)
	ctx := context.Background()

	tables, err := c.Tables(ctx)
	require.NoError(t, err)
	assert.Len(t, tables.ProjectTypes, 2)
	assert.Equal(t, quote.Decimal(1.5), tables.ComplexityLevels[1].PriceMultiplier)

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	p, err := c.ProjectBySlug(ctx, projects[0].Slug)
	require.NoError(t, err)
	assert.Equal(t, "Site", p.Title)

	_, err = c.SendContact(ctx, ContactMessage{Name: "Ada", Email: "ada@example.com", Subject: "Devis", Message: "Bonjour"})
	require.NoError(t, err)
	msgs, err := c.ContactMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
