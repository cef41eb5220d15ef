// Package service holds support services for the terminal console.
package service

import (
	"fmt"
	"strings"
)

// KeyHelp describes one key binding of the console.
type KeyHelp struct {
	Key         string
	Description string
	Examples    []string
}

// HelpProvider returns help text for key bindings.
type HelpProvider interface {
	GetHelp(key string) string
	GetAllHelp() []KeyHelp
}

// DefaultHelpProvider implements the HelpProvider interface.
type DefaultHelpProvider struct {
	order    []string
	bindings map[string]*KeyHelp
}

// NewDefaultHelpProvider creates a new DefaultHelpProvider with the console bindings.
func NewDefaultHelpProvider() HelpProvider {
	provider := &DefaultHelpProvider{
		bindings: make(map[string]*KeyHelp),
	}

	provider.registerNavigationHelp()
	provider.registerFilterHelp()
	provider.registerSelectionHelp()
	provider.registerActionHelp()

	return provider
}

// GetHelp returns help text for a key.
func (p *DefaultHelpProvider) GetHelp(key string) string {
	help, ok := p.bindings[key]
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s - %s\n", help.Key, help.Description))
	if len(help.Examples) > 0 {
		sb.WriteString("Examples:\n")
		for _, example := range help.Examples {
			sb.WriteString(fmt.Sprintf("  %s\n", example))
		}
	}
	return sb.String()
}

// GetAllHelp returns help for every binding in registration order.
func (p *DefaultHelpProvider) GetAllHelp() []KeyHelp {
	helps := make([]KeyHelp, 0, len(p.order))
	for _, key := range p.order {
		helps = append(helps, *p.bindings[key])
	}
	return helps
}

func (p *DefaultHelpProvider) register(key, description string, examples ...string) {
	if _, exists := p.bindings[key]; !exists {
		p.order = append(p.order, key)
	}
	p.bindings[key] = &KeyHelp{Key: key, Description: description, Examples: examples}
}

func (p *DefaultHelpProvider) registerNavigationHelp() {
	p.register("j/k", "Move the cursor down or up")
	p.register("←/→", "Previous or next page (also h/l)")
	p.register("g/G", "First or last page")
}

func (p *DefaultHelpProvider) registerFilterHelp() {
	p.register("/", "Search by number, client, email or project type",
		"/marie", "/DEV-2024", "/status:sent site")
	p.register("s", "Cycle the status filter")
}

func (p *DefaultHelpProvider) registerSelectionHelp() {
	p.register("space", "Toggle selection of the quote under the cursor")
	p.register("a", "Select or unselect every quote on the page")
	p.register("A", "Select every quote matching the filters")
	p.register("c", "Clear the selection")
}

func (p *DefaultHelpProvider) registerActionHelp() {
	p.register("x", "Export the selection (or every match) to Excel")
	p.register("p", "Export the selection (or every match) as a PDF report")
	p.register("d", "Export the quote under the cursor as a PDF")
	p.register("Enter", "Send the quote under the cursor")
	p.register("S", "Send every selected quote")
	p.register("D", "Delete every selected quote")
	p.register("r", "Reload quotes and statistics")
	p.register("?", "Toggle this help")
	p.register("q", "Quit")
}
