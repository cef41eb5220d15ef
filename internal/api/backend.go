package api

import (
	"context"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// QuoteService is the quote administration surface of the backend.
type QuoteService interface {
	ListQuotes(ctx context.Context, status quote.Status) ([]quote.Quote, error)
	GetQuote(ctx context.Context, id int) (quote.Quote, error)
	PatchQuote(ctx context.Context, id int, fields map[string]any) (quote.Quote, error)
	DeleteQuote(ctx context.Context, id int) error
	BulkDeleteQuotes(ctx context.Context, ids []int) (BulkDeleteResult, error)
	SendQuote(ctx context.Context, id int) (SendResult, error)
	DuplicateQuote(ctx context.Context, id int) (quote.Quote, error)
	RejectQuote(ctx context.Context, id int, reason string) error
	DownloadPDF(ctx context.Context, id int, number string) (PDF, error)
	Statistics(ctx context.Context) (quote.ServerStatistics, error)
}

var _ QuoteService = (*Client)(nil)
