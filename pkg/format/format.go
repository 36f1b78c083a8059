// Package format renders money, percentages and dates for screen payloads.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders v as US dollars with thousands separators, e.g. "$1,234.56".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return "-$" + groupThousands(d.Neg().StringFixed(2))
	}
	return "$" + groupThousands(d.StringFixed(2))
}

// FormatPercent renders v with an explicit sign and two decimals. Zero is "+0.00%".
func FormatPercent(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return "-" + d.Neg().StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// FormatCompactNumber abbreviates thousands as "k" and millions as "M".
func FormatCompactNumber(v float64) string {
	d := decimal.NewFromFloat(v)
	switch abs := d.Abs(); {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "k"
	default:
		return d.StringFixed(0)
	}
}

// FormatDate renders t in US short form, e.g. "Mar 15, 2024".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders t as "March 15, 2024 at 02:30 PM".
func FormatDateTime(t time.Time) string {
	return t.Format("January 2, 2006 at 03:04 PM")
}

func groupThousands(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		if frac == "" {
			return intPart
		}
		return intPart + "." + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
