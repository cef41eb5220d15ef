package api

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// Reference table endpoints.
const (
	ProjectTypesPath         = "/api/project-types/"
	DesignOptionsPath        = "/api/design-options/"
	ComplexityLevelsPath     = "/api/complexity-levels/"
	SupplementaryOptionsPath = "/api/supplementary-options/"
	QuoteTemplatesPath       = "/api/quote-templates/"
	CompanyPath              = "/api/company/"
)

// ProjectTypes lists the project types.
func (c *Client) ProjectTypes(ctx context.Context) ([]quote.ProjectType, error) {
	return list[quote.ProjectType](ctx, c, ProjectTypesPath, nil)
}

// DesignOptions lists the design options.
func (c *Client) DesignOptions(ctx context.Context) ([]quote.DesignOption, error) {
	return list[quote.DesignOption](ctx, c, DesignOptionsPath, nil)
}

// ComplexityLevels lists the complexity levels.
func (c *Client) ComplexityLevels(ctx context.Context) ([]quote.ComplexityLevel, error) {
	return list[quote.ComplexityLevel](ctx, c, ComplexityLevelsPath, nil)
}

// SupplementaryOptions lists the supplementary options.
func (c *Client) SupplementaryOptions(ctx context.Context) ([]quote.SupplementaryOption, error) {
	return list[quote.SupplementaryOption](ctx, c, SupplementaryOptionsPath, nil)
}

// QuoteTemplates lists the quote templates as raw records.
func (c *Client) QuoteTemplates(ctx context.Context) ([]json.RawMessage, error) {
	return list[json.RawMessage](ctx, c, QuoteTemplatesPath, nil)
}

// Company returns the agency records as raw JSON.
func (c *Client) Company(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.call(ctx, request{method: http.MethodGet, path: CompanyPath}, &raw)
	return raw, err
}

// Tables fetches the four reference price tables concurrently.
func (c *Client) Tables(ctx context.Context) (quote.Tables, error) {
	var t quote.Tables
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { t.ProjectTypes, err = c.ProjectTypes(ctx); return })
	g.Go(func() (err error) { t.DesignOptions, err = c.DesignOptions(ctx); return })
	g.Go(func() (err error) { t.ComplexityLevels, err = c.ComplexityLevels(ctx); return })
	g.Go(func() (err error) { t.SupplementaryOptions, err = c.SupplementaryOptions(ctx); return })
	if err := g.Wait(); err != nil {
		return quote.Tables{}, err
	}
	return t, nil
}
