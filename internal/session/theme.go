package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/quotedesk/quotedesk/internal/localstore"
)

// DarkMode reports the saved theme. Absent means light.
func (m *Manager) DarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark
}

// SetDarkMode saves the theme.
func (m *Manager) SetDarkMode(ctx context.Context, dark bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(ctx, localstore.KeyDarkMode, strconv.FormatBool(dark)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	m.dark = dark
	return nil
}

// ToggleDarkMode flips and saves the theme, returning the new value.
func (m *Manager) ToggleDarkMode(ctx context.Context) (bool, error) {
	next := !m.DarkMode()
	if err := m.SetDarkMode(ctx, next); err != nil {
		return !next, err
	}
	return next, nil
}
