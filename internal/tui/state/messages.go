// Package state provides the console model and its BubbleTea messages.
package state

import (
	"github.com/quotedesk/quotedesk/internal/notify"
)

// QuotesLoadedMsg is sent when a load of quotes and statistics finishes.
type QuotesLoadedMsg struct {
	Err error
}

// ActionDoneMsg is sent when a background action finishes. Its outcome is
// already toasted; Path is set for exports.
type ActionDoneMsg struct {
	Action string
	Path   string
	Err    error
}

// ToastMsg is sent for every change of the notification queue.
type ToastMsg struct {
	Event notify.Event
}
