package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// MockQuoteService is a testify mock of QuoteService.
//
// Example usage:
//
//	m := new(MockQuoteService)
//	m.On("SendQuote", mock.Anything, 7).Return(SendResult{Message: "ok"}, nil)
type MockQuoteService struct {
	mock.Mock
}

var _ QuoteService = (*MockQuoteService)(nil)

func (m *MockQuoteService) ListQuotes(ctx context.Context, status quote.Status) ([]quote.Quote, error) {
	args := m.Called(ctx, status)
	quotes, _ := args.Get(0).([]quote.Quote)
	return quotes, args.Error(1)
}

func (m *MockQuoteService) GetQuote(ctx context.Context, id int) (quote.Quote, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(quote.Quote), args.Error(1)
}

func (m *MockQuoteService) PatchQuote(ctx context.Context, id int, fields map[string]any) (quote.Quote, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(quote.Quote), args.Error(1)
}

func (m *MockQuoteService) DeleteQuote(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuoteService) BulkDeleteQuotes(ctx context.Context, ids []int) (BulkDeleteResult, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(BulkDeleteResult), args.Error(1)
}

func (m *MockQuoteService) SendQuote(ctx context.Context, id int) (SendResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(SendResult), args.Error(1)
}

func (m *MockQuoteService) DuplicateQuote(ctx context.Context, id int) (quote.Quote, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(quote.Quote), args.Error(1)
}

func (m *MockQuoteService) RejectQuote(ctx context.Context, id int, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockQuoteService) DownloadPDF(ctx context.Context, id int, number string) (PDF, error) {
	args := m.Called(ctx, id, number)
	return args.Get(0).(PDF), args.Error(1)
}

func (m *MockQuoteService) Statistics(ctx context.Context) (quote.ServerStatistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(quote.ServerStatistics), args.Error(1)
}
