package api

import (
	"context"
	"net/http"
	"net/url"
)

// Technology is a skill shown on the portfolio.
type Technology struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Category string `json:"category,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Project is a portfolio project.
type Project struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Slug             string       `json:"slug"`
	ShortDescription string       `json:"short_description"`
	Description      string       `json:"description,omitempty"`
	Category         string       `json:"category,omitempty"`
	Technologies     []Technology `json:"technologies,omitempty"`
	GithubURL        string       `json:"github_url,omitempty"`
	LiveURL          string       `json:"live_url,omitempty"`
	Featured         bool         `json:"featured"`
	CompletionDate   string       `json:"completion_date,omitempty"`
}

// Testimonial is a client review.
type Testimonial struct {
	ID             int    `json:"id"`
	ClientName     string `json:"client_name"`
	ClientPosition string `json:"client_position,omitempty"`
	ClientCompany  string `json:"client_company,omitempty"`
	Content        string `json:"content"`
	Rating         int    `json:"rating"`
}

// Technologies lists the portfolio technologies.
func (c *Client) Technologies(ctx context.Context) ([]Technology, error) {
	return list[Technology](ctx, c, "/api/portfolio/technologies/", nil)
}

// Projects lists the published projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	return list[Project](ctx, c, "/api/portfolio/projects/", nil)
}

// ProjectBySlug returns one project.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) (Project, error) {
	var p Project
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/portfolio/projects/" + url.PathEscape(slug) + "/"}, &p)
	return p, err
}

// Testimonials lists the published testimonials.
func (c *Client) Testimonials(ctx context.Context) ([]Testimonial, error) {
	return list[Testimonial](ctx, c, "/api/portfolio/testimonials/", nil)
}
