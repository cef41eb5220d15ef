package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDates(t *testing.T) {
	ts := time.Date(2025, time.November, 14, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "14/11/2025", Date(ts))
	assert.Equal(t, "vendredi 14 novembre 2025", LongDate(ts))
	assert.Equal(t, "14/11/2025 15:30", DateTime(ts))
	assert.Equal(t, NA, Date(time.Time{}))
	assert.Equal(t, NA, LongDate(time.Time{}))
	assert.Equal(t, NA, DateTime(time.Time{}))
}

func TestDateString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-03-01T10:00:00Z", "01/03/2025"},
		{"2025-03-01T10:00:00.123456+01:00", "01/03/2025"},
		{"2025-03-01", "01/03/2025"},
		{"", NA},
		{"not a date", NA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateString(tt.in), tt.in)
	}
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "1234.50 €", Amount(1234.5, "€", 2))
	assert.Equal(t, "10 $", Amount(10, "$", 0))
	assert.Equal(t, "0.00 €", Amount(math.NaN(), "", 2))
	assert.Equal(t, "99.90 €", Euros(99.9))
	assert.Equal(t, "12.00 €", AmountString("12"))
	assert.Equal(t, "12.50 €", AmountString("12.5abc"))
	assert.Equal(t, "0.00 €", AmountString(""))
	assert.Equal(t, "0.00 €", AmountString("abc"))
}

func TestCurrencyAndNumber(t *testing.T) {
	assert.Equal(t, "1 234,50 €", Currency(1234.5))
	assert.Equal(t, "0,00 €", Currency(0))
	assert.Equal(t, "-12,00 €", Currency(-12))
	assert.Equal(t, "1 234 567", Number(1234567))
	assert.Equal(t, "1 234,5", Number(1234.5))
	assert.Equal(t, "0,125", Number(0.125))
	assert.Equal(t, "0", Number(math.Inf(1)))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "12.50%", Percentage(12.5, 2))
	assert.Equal(t, "10%", Percentage(10, 0))
	assert.Equal(t, "0%", Percentage(math.NaN(), 2))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "06 12 34 56 78", Phone("0612345678"))
	assert.Equal(t, "06 12 34 56 78", Phone("06.12.34.56.78"))
	assert.Equal(t, "+33 6 12 34 56 78", Phone("+33 6 12 34 56 78"))
	assert.Equal(t, NA, Phone(""))
}

func TestTruncateAndCapitalize(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10, "..."))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10, "..."))
	assert.Equal(t, "éèà…", Truncate("éèàùç", 4, "…"))
	assert.Equal(t, "Bonjour", Capitalize("bONJOUR"))
	assert.Equal(t, "Été", Capitalize("été"))
	assert.Equal(t, "", Capitalize(""))
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber(" 42.5 €")
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	v, ok = ParseNumber("-.5")
	assert.True(t, ok)
	assert.Equal(t, -0.5, v)

	_, ok = ParseNumber("€42")
	assert.False(t, ok)
}
