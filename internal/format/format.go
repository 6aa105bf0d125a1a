// Package format renders amounts, dates and file names in the document's
// single fixed locale.
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/servicereport/internal/order"
)

const (
	// CurrencyPrefix precedes every rendered amount.
	CurrencyPrefix = "R$ "
	// DateLayout is DD/MM/YYYY.
	DateLayout = "02/01/2006"
	// DatePlaceholder stands in for an absent date.
	DatePlaceholder = "-"
	// FilePrefix starts every derived document file name.
	FilePrefix = "ordem-servico-"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = strings.NewReplacer("/", "-", `\`, "-")
)

// Currency renders d with the currency prefix and exactly two decimals,
// rounding half away from zero (half-up for the non-negative amounts a
// record holds).
func Currency(d decimal.Decimal) string {
	return CurrencyPrefix + d.StringFixed(2)
}

// NullCurrency renders a possibly-missing amount; missing is zero.
func NullCurrency(n decimal.NullDecimal) string {
	if !n.Valid {
		return Currency(decimal.Zero)
	}
	return Currency(n.Decimal)
}

// CurrencyString renders raw amount text with the same coercion as record
// input, so text that does not parse is zero.
func CurrencyString(raw string) string {
	return Currency(order.ParseAmount(raw))
}

// Date renders t as DD/MM/YYYY. The zero time renders as an empty string.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// OptionalDate renders t, or DatePlaceholder when t is nil.
func OptionalDate(t *time.Time) string {
	if t == nil {
		return DatePlaceholder
	}
	return Date(*t)
}

// FileName derives the document file name from the client name: lower-cased,
// each whitespace run replaced by "-", then ext appended. ext includes its
// leading dot. Path separators are replaced as well so the result is always
// a single path element.
func FileName(client, ext string) string {
	base := whitespaceRun.ReplaceAllString(strings.ToLower(client), "-")
	return FilePrefix + pathSeparator.Replace(base) + ext
}
