// Package validate checks form input before it is sent to the backend.
// Every check returns a Result carrying the French message shown to users.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// Messages shared with the rest of the application.
const (
	MsgRequired      = quote.MsgRequiredField
	MsgInvalidEmail  = quote.MsgInvalidEmail
	MsgInvalidPhone  = quote.MsgInvalidPhone
	MsgPassword      = "Le mot de passe doit contenir au moins 8 caractères, une majuscule, une minuscule et un chiffre"
	MsgInvalidNumber = "Doit être un nombre valide"
	MsgInvalidAmount = "Doit être un montant valide"
	MsgNegative      = "Le montant doit être positif"
	MsgDecimals      = "Maximum 2 décimales autorisées"
	MsgPercentRange  = "Le pourcentage doit être entre 0 et 100"
	MsgInvalidURL    = "URL invalide"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneFRPattern = regexp.MustCompile(`^(?:(?:\+|00)33|0)\s*[1-9](?:[\s.-]*\d{2}){4}$`)

	structValidator = validator.New()
)

// Result is the outcome of a single check.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func pass() Result { return Result{Valid: true} }
func fail(msg string) Result { return Result{Error: msg} }

// IsEmpty reports whether v is nil, a blank string, or an empty slice or map.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Required fails on empty values. msg replaces the default message when set.
func Required(v any, msg string) Result {
	if !IsEmpty(v) {
		return pass()
	}
	if msg == "" {
		msg = MsgRequired
	}
	return fail(msg)
}

func presence(v any, required bool) (Result, bool) {
	empty := IsEmpty(v)
	switch {
	case !required && empty:
		return pass(), true
	case required && empty:
		return fail(MsgRequired), true
	}
	return Result{}, false
}

// Email checks the address shape user@domain.tld.
func Email(email string, required bool) Result {
	if r, done := presence(email, required); done {
		return r
	}
	if !emailPattern.MatchString(email) {
		return fail(MsgInvalidEmail)
	}
	return pass()
}

// Phone accepts French numbers: 0X, +33X or 0033X followed by four pairs of
// digits, optionally separated by spaces, dots or dashes.
func Phone(phone string, required bool) Result {
	if r, done := presence(phone, required); done {
		return r
	}
	if !phoneFRPattern.MatchString(phone) {
		return fail(MsgInvalidPhone)
	}
	return pass()
}

// Password requires at least eight characters with one lower-case letter,
// one upper-case letter and one digit.
func Password(password string) Result {
	if IsEmpty(password) {
		return fail(MsgRequired)
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if utf8.RuneCountInString(password) < 8 || !lower || !upper || !digit || strings.ContainsAny(password, "\n\r") {
		return fail(MsgPassword)
	}
	return pass()
}

// MinLength fails on empty values and strings shorter than min runes.
func MinLength(value string, min int) Result {
	if IsEmpty(value) {
		return fail(MsgRequired)
	}
	if utf8.RuneCountInString(value) < min {
		return fail(quote.MsgMinLength(min))
	}
	return pass()
}

// MaxLength accepts empty values.
func MaxLength(value string, max int) Result {
	if IsEmpty(value) {
		return pass()
	}
	if utf8.RuneCountInString(value) > max {
		return fail(quote.MsgMaxLength(max))
	}
	return pass()
}

// NumberOptions bounds a numeric check. Nil bounds are ignored.
type NumberOptions struct {
	Min      *float64
	Max      *float64
	Required bool
}

// Bound is a helper for NumberOptions literals.
func Bound(v float64) *float64 { return &v }

// Number checks that v is numeric and within the optional bounds.
func Number(v any, opts NumberOptions) Result {
	if r, done := presence(v, opts.Required); done {
		return r
	}
	n, valid := toNumber(v)
	if !valid {
		return fail(MsgInvalidNumber)
	}
	if opts.Min != nil && n < *opts.Min {
		return fail(fmt.Sprintf("Doit être supérieur ou égal à %s", trimFloat(*opts.Min)))
	}
	if opts.Max != nil && n > *opts.Max {
		return fail(fmt.Sprintf("Doit être inférieur ou égal à %s", trimFloat(*opts.Max)))
	}
	return pass()
}

// Amount checks a non-negative number with at most two decimals.
func Amount(v any, required bool) Result {
	if r, done := presence(v, required); done {
		return r
	}
	n, valid := toNumber(v)
	if !valid {
		return fail(MsgInvalidAmount)
	}
	if n < 0 {
		return fail(MsgNegative)
	}
	_, decimals, _ := strings.Cut(numberText(v), ".")
	if len(decimals) > 2 {
		return fail(MsgDecimals)
	}
	return pass()
}

// Percentage checks a number between 0 and 100 inclusive.
func Percentage(v any, required bool) Result {
	r := Number(v, NumberOptions{Min: Bound(0), Max: Bound(100), Required: required})
	if !r.Valid && (strings.Contains(r.Error, "supérieur") || strings.Contains(r.Error, "inférieur")) {
		r.Error = MsgPercentRange
	}
	return r
}

// URL checks for an absolute URL.
func URL(raw string, required bool) Result {
	if r, done := presence(raw, required); done {
		return r
	}
	if err := structValidator.Var(strings.TrimSpace(raw), "url"); err != nil {
		return fail(MsgInvalidURL)
	}
	return pass()
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimFunc(t, unicode.IsSpace)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case fmt.Stringer:
		return toNumber(t.String())
	}
	return 0, false
}

func numberText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
