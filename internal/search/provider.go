// Package search provides the matching strategies used to filter quotes.
// Listing, the CLI and the console share one Provider so they agree on what
// a search string selects.
package search

import (
	"github.com/quotedesk/quotedesk/internal/quote"
)

// Provider matches a quote against a query.
type Provider interface {
	// Match returns true if q matches query. An empty query matches everything.
	Match(q quote.Quote, query string) bool

	// Name returns the provider name.
	Name() string
}

// Searchable fields.
const (
	FieldNumber      = "number"
	FieldClient      = "client"
	FieldEmail       = "email"
	FieldProjectType = "project_type"
	FieldStatus      = "status"
	FieldNotes       = "notes"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches the quote number, client name, client email and
// project type, ignoring case.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldNumber, FieldClient, FieldEmail, FieldProjectType},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the strings a field contributes for q. The client
// field yields both the flat client_name and the display name.
func fieldValues(q quote.Quote, field string) []string {
	switch field {
	case FieldNumber:
		return []string{q.QuoteNumber}
	case FieldClient:
		return []string{q.ClientName, q.ClientDisplayName()}
	case FieldEmail:
		return []string{q.ClientEmail, q.Email()}
	case FieldProjectType:
		return []string{q.ProjectTypeName, q.ProjectTypeLabel()}
	case FieldStatus:
		return []string{string(q.Status), quote.StatusLabel(q.Status)}
	case FieldNotes:
		return []string{q.Notes}
	}
	return nil
}

// New returns the provider registered under name. Unknown names get the
// substring provider.
func New(name string, opts ...Option) Provider {
	switch name {
	case "token":
		return NewTokenProvider(opts...)
	case "regex":
		return NewRegexProvider(opts...)
	default:
		return NewSubstringProvider(opts...)
	}
}
