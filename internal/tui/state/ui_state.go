package state

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 120
	defaultHeight = 30
)

// confirmation is an action waiting for a y/n answer.
type confirmation struct {
	prompt string
	action func() tea.Cmd
}

// UIState manages the UI-specific state of the console: size, cursor,
// search input, help overlay and pending confirmation.
type UIState struct {
	width  int
	height int
	cursor int

	searchMode  bool
	searchInput textinput.Model

	showHelp bool
	confirm  *confirmation
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "numéro, client, email, type de projet"
	input.CharLimit = 120
	return &UIState{
		width:       defaultWidth,
		height:      defaultHeight,
		searchInput: input,
	}
}

// GetWidth returns the current width of the UI.
func (u *UIState) GetWidth() int {
	return u.width
}

// SetWidth updates the width of the UI.
func (u *UIState) SetWidth(width int) {
	u.width = width
	if width <= 0 {
		u.width = defaultWidth
	}
	u.searchInput.Width = u.width - 2
}

// GetHeight returns the current height of the UI.
func (u *UIState) GetHeight() int {
	return u.height
}

// SetHeight updates the height of the UI.
func (u *UIState) SetHeight(height int) {
	u.height = height
	if height <= 0 {
		u.height = defaultHeight
	}
}

// GetCursor returns the cursor row within the current page.
func (u *UIState) GetCursor() int {
	return u.cursor
}

// SetCursor updates the cursor, clamped to [0, rows).
func (u *UIState) SetCursor(cursor, rows int) {
	if cursor >= rows {
		cursor = rows - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	u.cursor = cursor
}

// IsSearchMode returns whether search mode is active.
func (u *UIState) IsSearchMode() bool {
	return u.searchMode
}

// SetSearchMode focuses or blurs the search input.
func (u *UIState) SetSearchMode(active bool) {
	u.searchMode = active
	if active {
		u.searchInput.Focus()
		return
	}
	u.searchInput.Blur()
}

// GetSearchQuery returns the text of the search input.
func (u *UIState) GetSearchQuery() string {
	return u.searchInput.Value()
}

// SetSearchQuery replaces the text of the search input.
func (u *UIState) SetSearchQuery(query string) {
	u.searchInput.SetValue(query)
}

// SearchInput exposes the input for rendering and updates.
func (u *UIState) SearchInput() *textinput.Model {
	return &u.searchInput
}

// ToggleHelp shows or hides the help overlay.
func (u *UIState) ToggleHelp() {
	u.showHelp = !u.showHelp
}

// IsHelpShown reports whether the help overlay is visible.
func (u *UIState) IsHelpShown() bool {
	return u.showHelp
}

// Confirm asks for a y/n answer before running action.
func (u *UIState) Confirm(prompt string, action func() tea.Cmd) {
	u.confirm = &confirmation{prompt: prompt, action: action}
}

// PendingConfirmation returns the prompt waiting for an answer, if any.
func (u *UIState) PendingConfirmation() string {
	if u.confirm == nil {
		return ""
	}
	return u.confirm.prompt
}

// ResolveConfirmation clears the pending confirmation and returns its
// command when accepted.
func (u *UIState) ResolveConfirmation(accepted bool) tea.Cmd {
	c := u.confirm
	u.confirm = nil
	if c == nil || !accepted || c.action == nil {
		return nil
	}
	return c.action()
}
