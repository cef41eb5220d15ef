package state

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgNoSelection is shown when a bulk action runs with nothing selected.
const MsgNoSelection = "Aucun devis sélectionné"

// handleKeyMsg routes a key to the confirmation prompt, the search input or
// the normal bindings, in that order.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.uiState.PendingConfirmation() != "" {
		return m.handleConfirmation(msg)
	}
	if m.uiState.IsSearchMode() {
		return m.handleSearchKey(msg)
	}
	if m.uiState.IsHelpShown() {
		if msg.Type == tea.KeyRunes && msg.String() == "q" {
			return m.quit()
		}
		m.uiState.ToggleHelp()
		return m, nil
	}
	return m.handleKeyType(msg)
}

// handleConfirmation answers the pending prompt.
func (m *Model) handleConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, m.uiState.ResolveConfirmation(false)
	case tea.KeyEnter:
		return m, m.uiState.ResolveConfirmation(true)
	case tea.KeyRunes:
		switch msg.String() {
		case "y", "Y", "o", "O":
			return m, m.uiState.ResolveConfirmation(true)
		case "n", "N":
			return m, m.uiState.ResolveConfirmation(false)
		}
	}
	return m, nil
}

// handleSearchKey edits the live search. Enter keeps the query, Esc drops it.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.uiState.SetSearchQuery("")
		m.uiState.SetSearchMode(false)
		m.applySearch("")
		return m, nil
	case tea.KeyEnter:
		m.uiState.SetSearchMode(false)
		return m, nil
	}

	input := m.uiState.SearchInput()
	updated, cmd := input.Update(msg)
	*input = updated
	m.applySearch(updated.Value())
	return m, cmd
}

func (m *Model) applySearch(query string) {
	if query == m.list.Search() {
		return
	}
	m.list.SetSearch(query)
	m.uiState.SetCursor(0, len(m.list.Page()))
}

// handleKeyType handles non-rune keys and dispatches runes to bindings.
func (m *Model) handleKeyType(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
	case tea.KeyDown:
		m.moveCursor(1)
	case tea.KeyLeft:
		m.changePage(m.list.PreviousPage())
	case tea.KeyRight:
		m.changePage(m.list.NextPage())
	case tea.KeySpace:
		if q, ok := m.current(); ok {
			m.list.Toggle(q.ID)
		}
	case tea.KeyEnter:
		if q, ok := m.current(); ok {
			return m, m.sendCmd(q.ID)
		}
	case tea.KeyRunes:
		return m.handleKeyBinding(msg.String())
	}
	return m, nil
}

// handleKeyBinding handles single-rune bindings.
func (m *Model) handleKeyBinding(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m.quit()
	case "j":
		m.moveCursor(1)
	case "k":
		m.moveCursor(-1)
	case "h":
		m.changePage(m.list.PreviousPage())
	case "l":
		m.changePage(m.list.NextPage())
	case "g":
		m.changePage(m.list.GoToPage(1))
	case "G":
		m.changePage(m.list.GoToPage(m.list.TotalPages()))
	case "/":
		m.uiState.SetSearchQuery(m.list.Search())
		m.uiState.SetSearchMode(true)
		return m, textinput.Blink
	case "s":
		m.list.SetStatus(nextStatus(m.list.Status()))
		m.uiState.SetCursor(0, len(m.list.Page()))
	case "a":
		m.list.ToggleSelectAllPage()
	case "A":
		m.list.SelectAllMatching()
	case "c":
		m.list.ClearSelection()
	case "x":
		return m, m.exportCmd(actionExportSpreadsheet)
	case "p":
		return m, m.exportCmd(actionExportReport)
	case "d":
		if q, ok := m.current(); ok {
			return m, m.detailCmd(q)
		}
	case "S":
		m.confirmBulk("Envoyer %d devis ?", m.bulkSendCmd)
	case "D":
		m.confirmBulk("Supprimer %d devis ?", m.bulkDeleteCmd)
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "?":
		m.uiState.ToggleHelp()
	}
	return m, nil
}

func (m *Model) confirmBulk(prompt string, build func([]int) tea.Cmd) {
	ids := m.list.Selected()
	if len(ids) == 0 {
		m.queue.Info(MsgNoSelection, "")
		return
	}
	m.uiState.Confirm(fmt.Sprintf(prompt, len(ids)), func() tea.Cmd { return build(ids) })
}

func (m *Model) moveCursor(delta int) {
	m.uiState.SetCursor(m.uiState.GetCursor()+delta, len(m.list.Page()))
}

func (m *Model) changePage(moved bool) {
	if moved {
		m.uiState.SetCursor(0, len(m.list.Page()))
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}
