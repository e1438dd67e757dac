package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyPrefixes = []string{"R$", "US$", "USD", "EUR", "BRL"}

// Value parses a monetary amount as written by Brazilian (and occasionally
// US-formatted) bank exports into a decimal. It strips currency symbols,
// disambiguates thousands separators from the decimal separator, and accepts
// both "-123,45" and "(123,45)" for negatives. Returns false when the string
// carries no parseable number.
func Value(s string) (decimal.Decimal, bool) {
	cleaned := strings.Join(strings.Fields(strings.TrimSpace(s)), "")
	for _, prefix := range currencyPrefixes {
		cleaned = strings.TrimPrefix(cleaned, prefix)
	}
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	} else if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		// Both present: whichever comes last is the decimal separator.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// BR format: 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// US format: 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Decimal comma: 1234,56
			cleaned = parts[0] + "." + parts[1]
		} else {
			// Thousands commas: 1,234,567
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasDot:
		if strings.Count(cleaned, ".") > 1 {
			// Multiple dots can only be thousands separators: 1.234.567
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		// A single dot is assumed decimal (US format).
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
