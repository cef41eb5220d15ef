package search

import (
	"strings"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// TokenProvider splits the query on whitespace; every token must match at
// least one field. A "status:<value>" token restricts the status instead,
// accepting either the raw status or its label.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{
		opts: applyOptions(opts),
	}
}

// Match returns true if q passes every status token and every text token
// matches some field.
func (p *TokenProvider) Match(q quote.Quote, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	for _, token := range tokens {
		if value, ok := strings.CutPrefix(strings.ToLower(token), "status:"); ok {
			status, known := quote.ParseStatus(value)
			if !known {
				status, known = parseLabel(value)
			}
			if !known || q.Status != status {
				return false
			}
			continue
		}
		if !p.matchToken(q, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(q quote.Quote, token string) bool {
	if p.opts.CaseInsensitive {
		token = strings.ToLower(token)
	}
	for _, field := range p.opts.Fields {
		for _, value := range fieldValues(q, field) {
			if value == "" {
				continue
			}
			if p.opts.CaseInsensitive {
				value = strings.ToLower(value)
			}
			if strings.Contains(value, token) {
				return true
			}
		}
	}
	return false
}

// parseLabel matches a lower-cased status label such as "accepté".
func parseLabel(value string) (quote.Status, bool) {
	for _, s := range quote.Statuses {
		if strings.ToLower(s.Label()) == value {
			return s, true
		}
	}
	return "", false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return "token"
}
