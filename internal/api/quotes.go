package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// QuotesPath is the quote collection endpoint.
const QuotesPath = "/api/quotes/"

func quotePath(id int, action string) string {
	if action == "" {
		return fmt.Sprintf("%s%d/", QuotesPath, id)
	}
	return fmt.Sprintf("%s%d/%s/", QuotesPath, id, action)
}

// ListQuotes returns all quotes, optionally restricted to one status.
func (c *Client) ListQuotes(ctx context.Context, status quote.Status) ([]quote.Quote, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	return list[quote.Quote](ctx, c, QuotesPath, q)
}

// MyQuotes returns the quotes of the signed-in client.
func (c *Client) MyQuotes(ctx context.Context) ([]quote.Quote, error) {
	return list[quote.Quote](ctx, c, c.myQuotesPath, nil)
}

// GetQuote returns one quote in detail.
func (c *Client) GetQuote(ctx context.Context, id int) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodGet, path: quotePath(id, "")}, &q)
	return q, err
}

// CreateQuote posts a new quote. data is any JSON-encodable payload.
func (c *Client) CreateQuote(ctx context.Context, data any) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodPost, path: QuotesPath, body: data}, &q)
	return q, err
}

// UpdateQuote replaces a quote.
func (c *Client) UpdateQuote(ctx context.Context, id int, data any) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodPut, path: quotePath(id, ""), body: data}, &q)
	return q, err
}

// PatchQuote updates some fields of a quote.
func (c *Client) PatchQuote(ctx context.Context, id int, fields map[string]any) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodPatch, path: quotePath(id, ""), body: fields}, &q)
	return q, err
}

// DeleteQuote deletes a quote.
func (c *Client) DeleteQuote(ctx context.Context, id int) error {
	return c.call(ctx, request{method: http.MethodDelete, path: quotePath(id, "")}, nil)
}

// BulkDeleteResult is the reply of the bulk delete endpoint.
type BulkDeleteResult struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message,omitempty"`
}

// BulkDeleteQuotes deletes several quotes in one request.
func (c *Client) BulkDeleteQuotes(ctx context.Context, ids []int) (BulkDeleteResult, error) {
	var r BulkDeleteResult
	err := c.call(ctx, request{method: http.MethodPost, path: QuotesPath + "bulk-delete/", body: map[string]any{"ids": ids}}, &r)
	return r, err
}

// SendResult is the reply of the send-email action.
type SendResult struct {
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// SendQuote emails the quote to its client.
func (c *Client) SendQuote(ctx context.Context, id int) (SendResult, error) {
	var r SendResult
	err := c.call(ctx, request{method: http.MethodPost, path: quotePath(id, "send-email")}, &r)
	return r, err
}

// DuplicateQuote copies a quote into a new draft.
func (c *Client) DuplicateQuote(ctx context.Context, id int) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodPost, path: quotePath(id, "duplicate")}, &q)
	return q, err
}

// RejectQuote marks a quote rejected with a reason.
func (c *Client) RejectQuote(ctx context.Context, id int, reason string) error {
	return c.call(ctx, request{method: http.MethodPost, path: quotePath(id, "reject"), body: map[string]string{"reason": reason}}, nil)
}

// PDF is a rendered quote document.
type PDF struct {
	Filename string
	Data     []byte
}

// DownloadPDF fetches the server-rendered PDF of a quote. The filename is
// taken from Content-Disposition when present.
func (c *Client) DownloadPDF(ctx context.Context, id int, number string) (PDF, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: quotePath(id, "download-pdf"), accept: "application/pdf"})
	if err != nil {
		return PDF{}, err
	}
	name := fmt.Sprintf("devis-%s.pdf", number)
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return PDF{Filename: name, Data: resp.body}, nil
}

// Statistics returns the admin dashboard figures.
func (c *Client) Statistics(ctx context.Context) (quote.ServerStatistics, error) {
	var s quote.ServerStatistics
	err := c.call(ctx, request{method: http.MethodGet, path: QuotesPath + "statistics/"}, &s)
	return s, err
}

// PublicQuote returns the quote behind a signature token without authentication.
func (c *Client) PublicQuote(ctx context.Context, token string) (quote.Quote, error) {
	var q quote.Quote
	err := c.call(ctx, request{method: http.MethodGet, path: QuotesPath + "public/" + url.PathEscape(token) + "/"}, &q)
	return q, err
}

// Signature is the body of the sign action.
type Signature struct {
	SignatureData string `json:"signature_data"`
	ClientName    string `json:"client_name"`
}

// SignResult is the reply of the sign action.
type SignResult struct {
	Message string      `json:"message"`
	Quote   quote.Quote `json:"quote"`
}

// SignQuote accepts the quote behind token.
func (c *Client) SignQuote(ctx context.Context, token string, sig Signature) (SignResult, error) {
	var r SignResult
	err := c.call(ctx, request{method: http.MethodPost, path: QuotesPath + "sign/" + url.PathEscape(token) + "/", body: sig}, &r)
	return r, err
}
