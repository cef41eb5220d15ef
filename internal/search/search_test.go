package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quotedesk/quotedesk/internal/quote"
)

var nested = quote.Quote{
	QuoteNumber: "DEV-0007",
	Client: &quote.Client{
		User: &quote.User{FirstName: "Jean", LastName: "Dupont", Email: "jean@dupont.fr"},
	},
	ProjectType: &quote.Ref{ID: 2, Name: "E-commerce"},
	Status:      quote.StatusAccepted,
	Notes:       "urgent",
}

var flat = quote.Quote{
	QuoteNumber:     "DEV-0008",
	ClientName:      "Acme",
	ClientEmail:     "boss@acme.io",
	ProjectTypeName: "Site vitrine",
	Status:          quote.StatusSent,
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldNumber, FieldClient, FieldEmail, FieldProjectType}, opts.Fields)

	WithCaseInsensitive(false)(&opts)
	WithFields([]string{FieldNotes})(&opts)
	assert.False(t, opts.CaseInsensitive)
	assert.Equal(t, []string{FieldNotes}, opts.Fields)
}

func TestSubstringProvider(t *testing.T) {
	p := NewSubstringProvider()
	tests := []struct {
		name  string
		q     quote.Quote
		query string
		want  bool
	}{
		{"empty query", flat, "", true},
		{"number", flat, "dev-0008", true},
		{"flat client", flat, "ACME", true},
		{"flat email", flat, "boss@", true},
		{"flat project type", flat, "vitrine", true},
		{"display name", nested, "jean dupont", true},
		{"nested email", nested, "dupont.fr", true},
		{"relation project type", nested, "commerce", true},
		{"status not searched", nested, "accepted", false},
		{"notes not searched", nested, "urgent", false},
		{"no match", flat, "shop", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.q, tt.query))
		})
	}
	assert.Equal(t, "substring", p.Name())
}

func TestSubstringCaseSensitive(t *testing.T) {
	p := NewSubstringProvider(WithCaseInsensitive(false))
	assert.True(t, p.Match(flat, "Acme"))
	assert.True(t, p.Match(flat, "acme.io"))
	assert.False(t, p.Match(flat, "ACME"))
	assert.False(t, p.Match(flat, "aCmE"))
}

func TestTokenProvider(t *testing.T) {
	p := NewTokenProvider()
	assert.True(t, p.Match(nested, "  "))
	assert.True(t, p.Match(nested, "jean commerce"))
	assert.False(t, p.Match(nested, "jean vitrine"))
	assert.True(t, p.Match(nested, "status:accepted"))
	assert.True(t, p.Match(nested, "status:Accepté jean"))
	assert.False(t, p.Match(flat, "status:accepted"))
	assert.False(t, p.Match(flat, "status:bogus"))
	assert.Equal(t, "token", p.Name())
}

func TestRegexProvider(t *testing.T) {
	p := NewRegexProvider()
	assert.True(t, p.Match(flat, `^dev-\d{4}$`))
	assert.False(t, p.Match(flat, `^DEV-1`))
	assert.False(t, p.Match(flat, `(`))
	assert.Error(t, p.(*RegexProvider).Valid(`(`))
	assert.NoError(t, p.(*RegexProvider).Valid(`a+`))

	withNotes := NewRegexProvider(WithFields([]string{FieldNotes, FieldStatus}))
	assert.True(t, withNotes.Match(nested, "urg"))
	assert.True(t, withNotes.Match(nested, "^Accepté$"))
}

func TestNewByName(t *testing.T) {
	assert.Equal(t, "token", New("token").Name())
	assert.Equal(t, "regex", New("regex").Name())
	assert.Equal(t, "substring", New("").Name())
	assert.Equal(t, "substring", New("fuzzy").Name())
}

func TestMockProvider(t *testing.T) {
	m := &MockProvider{}
	m.On("Match", flat, "x").Return(true)
	m.On("Name").Return("mock")
	m.On("Match", mock.Anything, "y").Return(func(q quote.Quote, _ string) bool { return q.ClientName == "Acme" })

	assert.True(t, m.Match(flat, "x"))
	assert.True(t, m.Match(flat, "y"))
	assert.False(t, m.Match(nested, "y"))
	assert.Equal(t, "mock", m.Name())
	m.AssertExpectations(t)
}
