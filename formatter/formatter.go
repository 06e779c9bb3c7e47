// Package formatter turns raw market values into display strings.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/leekchan/accounting"
)

const NotAvailable = "N/A"

const (
	billion  = 1_000_000_000
	million  = 1_000_000
	thousand = 1_000
)

// FormatCurrency formats a USD amount. With compact set, values of a
// thousand and up are abbreviated ("$2.50 B"). Positive amounts under a
// cent keep six decimals, amounts under a dollar keep four to six, the
// rest two.
func FormatCurrency(value float64, compact bool) string {
	if compact {
		if s, ok := abbreviate(value); ok {
			return "$" + s
		}
	}

	if value > 0 && value < 0.01 {
		return fmt.Sprintf("$%.6f", value)
	}

	if value < 1 {
		sign := ""
		if value < 0 {
			sign, value = "-", -value
		}
		digits := trimZerosTo(accounting.FormatNumberFloat64(value, 6, ",", "."), 4)
		return sign + "$" + digits
	}
	return usd(2).FormatMoneyFloat64(value)
}

// FormatCurrencyPtr is FormatCurrency with N/A for a missing value.
func FormatCurrencyPtr(value *float64, compact bool) string {
	if value == nil {
		return NotAvailable
	}
	return FormatCurrency(*value, compact)
}

// FormatPercentage renders a signed percentage with two decimals, "+" for zero and up.
func FormatPercentage(value float64) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

func FormatPercentagePtr(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return FormatPercentage(*value)
}

// FormatNumber abbreviates large quantities ("19.60 M"); smaller ones are
// grouped with up to three decimals.
func FormatNumber(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	if s, ok := abbreviate(*value); ok {
		return s
	}
	return trimZeros(accounting.FormatNumberFloat64(*value, 3, ",", "."))
}

// FormatSupply renders a circulating supply followed by the coin symbol.
func FormatSupply(value *float64, symbol string) string {
	if value == nil {
		return NotAvailable
	}
	return withSymbol(FormatNumber(value), symbol)
}

// FormatMaxSupply is FormatSupply with a missing cap shown as "Unlimited".
func FormatMaxSupply(value *float64, symbol string) string {
	if value == nil {
		return "Unlimited"
	}
	return withSymbol(FormatNumber(value), symbol)
}

func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDateTime is the full timestamp shown in chart tooltips and detail views.
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04:05")
}

func usd(precision int) *accounting.Accounting {
	return accounting.DefaultAccounting("$", precision)
}

func abbreviate(value float64) (string, bool) {
	switch {
	case value >= billion:
		return fmt.Sprintf("%.2f B", value/billion), true
	case value >= million:
		return fmt.Sprintf("%.2f M", value/million), true
	case value >= thousand:
		return fmt.Sprintf("%.2f K", value/thousand), true
	}
	return "", false
}

func withSymbol(s, symbol string) string {
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}

// trimZerosTo drops trailing fractional zeros while keeping at least min decimals.
func trimZerosTo(s string, min int) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	keep := dot + 1 + min
	for len(s) > keep && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

// trimZeros drops trailing fractional zeros and a dangling decimal point.
func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
