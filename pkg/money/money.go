// Package money holds the shared money primitives: locale-aware currency
// rendering, tolerant numeric parsing, and the clamps the budget math relies
// on. Everything here is pure; rendering preferences travel as a Locale value
// instead of a process-wide default because different surfaces render in
// different currencies.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale describes how one surface renders amounts. Budgets are whole-unit
// documents, so both fraction digit bounds default to zero.
type Locale struct {
	Currency          string
	Tag               string
	MinFractionDigits int
	MaxFractionDigits int
}

// NewLocale builds a zero-fraction-digit locale for the given ISO currency
// code and BCP 47 tag.
func NewLocale(currencyCode, tag string) Locale {
	return Locale{Currency: currencyCode, Tag: tag}
}

// FormatCurrency renders amount as "<symbol> <grouped number>" using the
// locale's grouping rules, e.g. "$ 1.234" under es-AR/ARS. Unknown tags or
// currency codes fall back to Spanish/USD rather than erroring; formatting is
// a display concern and must never fail a request.
func FormatCurrency(amount float64, loc Locale) string {
	tag, err := language.Parse(loc.Tag)
	if err != nil {
		tag = language.Spanish
	}

	unit, err := currency.ParseISO(loc.Currency)
	if err != nil {
		unit = currency.USD
	}

	p := message.NewPrinter(tag)
	sym := p.Sprint(currency.Symbol(unit))
	num := p.Sprint(number.Decimal(amount,
		number.MinFractionDigits(loc.MinFractionDigits),
		number.MaxFractionDigits(loc.MaxFractionDigits),
	))
	return sym + " " + num
}

// ParseNumber converts raw user input to a float64. It never returns an error
// and never produces NaN or an infinity: anything unparseable yields fallback.
// A lone comma decimal separator is accepted ("12,5" parses as 12.5).
func ParseNumber(raw string, fallback float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil {
		return fallback
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable amount.
	if v != v || v > maxAmount || v < -maxAmount {
		return fallback
	}
	return v
}

// maxAmount bounds parsed input well below float64 infinity so downstream
// multiplication by quantities cannot overflow.
const maxAmount = 1e15

// ClampMin returns v raised to min when below it.
func ClampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

// ClampRange confines v to [lo, hi].
func ClampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
