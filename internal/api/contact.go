package api

import (
	"context"
	"fmt"
	"net/http"
)

// ContactPath is the contact message endpoint.
const ContactPath = "/api/portfolio/contact/"

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status,omitempty"`
	IsRead    bool   `json:"is_read,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SendContact submits the contact form.
func (c *Client) SendContact(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	var out ContactMessage
	err := c.call(ctx, request{method: http.MethodPost, path: ContactPath, body: m}, &out)
	return out, err
}

// ContactMessages lists received messages.
func (c *Client) ContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return list[ContactMessage](ctx, c, ContactPath, nil)
}

// ContactMessageByID returns one message.
func (c *Client) ContactMessageByID(ctx context.Context, id int) (ContactMessage, error) {
	var out ContactMessage
	err := c.call(ctx, request{method: http.MethodGet, path: fmt.Sprintf("%s%d/", ContactPath, id)}, &out)
	return out, err
}

// UpdateContactMessage patches a message, typically its status.
func (c *Client) UpdateContactMessage(ctx context.Context, id int, fields map[string]any) (ContactMessage, error) {
	var out ContactMessage
	err := c.call(ctx, request{method: http.MethodPatch, path: fmt.Sprintf("%s%d/", ContactPath, id), body: fields}, &out)
	return out, err
}
