package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpProviderOrder(t *testing.T) {
	helps := NewDefaultHelpProvider().GetAllHelp()
	require.NotEmpty(t, helps)
	assert.Equal(t, "j/k", helps[0].Key)
	assert.Equal(t, "q", helps[len(helps)-1].Key)

	seen := map[string]bool{}
	for _, h := range helps {
		assert.False(t, seen[h.Key], "duplicate binding %s", h.Key)
		seen[h.Key] = true
		assert.NotEmpty(t, h.Description)
	}
	for _, key := range []string{"/", "s", "space", "a", "A", "c", "x", "p", "r"} {
		assert.True(t, seen[key], "missing binding %s", key)
	}
}

func TestGetHelp(t *testing.T) {
	p := NewDefaultHelpProvider()

	help := p.GetHelp("/")
	assert.Contains(t, help, "/ - Search")
	assert.Contains(t, help, "Examples:")
	assert.Contains(t, help, "/status:sent site")

	assert.Equal(t, "s - Cycle the status filter\n", p.GetHelp("s"))
	assert.Empty(t, p.GetHelp("unknown"))
}

func TestRegisterReplacesWithoutReordering(t *testing.T) {
	p := &DefaultHelpProvider{bindings: map[string]*KeyHelp{}}
	p.register("a", "first")
	p.register("b", "second")
	p.register("a", "replaced")

	helps := p.GetAllHelp()
	require.Len(t, helps, 2)
	assert.Equal(t, "replaced", helps[0].Description)
	assert.Equal(t, "b", helps[1].Key)
}
