package search

import (
	"github.com/stretchr/testify/mock"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: q, query.
func (_m *MockProvider) Match(q quote.Quote, query string) bool {
	ret := _m.Called(q, query)

	if rf, ok := ret.Get(0).(func(quote.Quote, string) bool); ok {
		return rf(q, query)
	}
	return ret.Bool(0)
}

// Name provides a mock function with given fields: .
func (_m *MockProvider) Name() string {
	ret := _m.Called()

	if rf, ok := ret.Get(0).(func() string); ok {
		return rf()
	}
	return ret.String(0)
}
