package notify

import "github.com/quotedesk/quotedesk/internal/colors"

// ConsoleSink prints notifications through the colors package.
type ConsoleSink struct{}

// Notify prints n as a colored toast line.
func (ConsoleSink) Notify(n Notification) {
	colors.Toast(string(n.Kind), n.Title, n.Body)
}
