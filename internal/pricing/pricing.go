// Package pricing converts between the storefront's display price strings
// ("$1,280") and numeric amounts used for order totals.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse strips the currency symbol and grouping separators from a display
// price and parses the residue as a decimal number. Malformed input yields 0
// rather than an error; a bad price contributes nothing to a total instead
// of failing the whole computation.
func Parse(price string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(price)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// Format renders a numeric amount back into the storefront's display form,
// grouping thousands and keeping cents only when present.
func Format(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	// Cents round half-up and can carry into the dollar amount.
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		grouped.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(digits[i : i+3])
	}

	out := "$" + grouped.String()
	if cents > 0 {
		out += fmt.Sprintf(".%02d", cents)
	}
	if negative {
		out = "-" + out
	}
	return out
}

// Subtotal sums price×quantity over snapshot line items.
func Subtotal(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += Parse(item.Price) * float64(item.Quantity)
	}
	return total
}

// LineItem is the minimal shape Subtotal needs: a price string and a
// quantity. Cart items and order items both satisfy it by conversion.
type LineItem struct {
	Price    string
	Quantity int
}
