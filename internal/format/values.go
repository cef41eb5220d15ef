// Package format renders values and listings for the terminal using
// French conventions (dd/mm/yyyy dates, euro amounts, grouped phone numbers).
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NA is printed for missing dates and phone numbers.
const NA = "N/A"

const (
	narrowNBSP = "\u202f"
	nbsp       = "\u00a0"
)

var (
	frWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	frMonths   = [...]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}

	dateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	nonDigits     = regexp.MustCompile(`\D`)
)

// ParseDate parses the date strings the backend emits. ok is false for empty
// or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber reads the leading decimal number of s, ignoring trailing text.
func ParseNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return t.Format("02/01/2006")
}

// DateString parses s and formats it as dd/mm/yyyy.
func DateString(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return NA
	}
	return Date(t)
}

// LongDate formats t as "lundi 14 novembre 2025".
func LongDate(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return fmt.Sprintf("%s %d %s %d", frWeekdays[t.Weekday()], t.Day(), frMonths[t.Month()-1], t.Year())
}

// DateTime formats t as "14/11/2025 15:30".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return t.Format("02/01/2006 15:04")
}

// Amount formats v with a fixed number of decimals and a trailing currency symbol.
func Amount(v float64, currency string, decimals int) string {
	if currency == "" {
		currency = "€"
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00 " + currency
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + " " + currency
}

// Euros is Amount with the default currency and two decimals.
func Euros(v float64) string {
	return Amount(v, "€", 2)
}

// AmountString formats a decimal string; empty or invalid input prints as zero.
func AmountString(s string) string {
	v, ok := ParseNumber(s)
	if !ok {
		return "0.00 €"
	}
	return Euros(v)
}

// Currency formats v the way fr-FR locales print euros: "1 234,50 €".
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return groupDigits(v, 2, 2) + nbsp + "€"
}

// Number formats v with fr-FR grouping and at most three decimals.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return groupDigits(v, 0, 3)
}

func groupDigits(v float64, minFrac, maxFrac int) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', maxFrac, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	for len(frac) > minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	var b strings.Builder
	if neg && (strings.Trim(intPart, "0") != "" || strings.Trim(frac, "0") != "") {
		b.WriteString("-")
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(narrowNBSP)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(",")
		b.WriteString(frac)
	}
	return b.String()
}

// Percentage formats v as "12.50%".
func Percentage(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// Phone groups a ten-digit number by pairs ("06 12 34 56 78"); other input is
// returned unchanged.
func Phone(s string) string {
	if s == "" {
		return NA
	}
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) != 10 {
		return s
	}
	pairs := make([]string, 0, 5)
	for i := 0; i < len(digits); i += 2 {
		pairs = append(pairs, digits[i:i+2])
	}
	return strings.Join(pairs, " ")
}

// Truncate shortens s to max runes, the suffix included.
func Truncate(s string, max int, suffix string) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	keep := max - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}
	return string([]rune(s)[:keep]) + suffix
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
