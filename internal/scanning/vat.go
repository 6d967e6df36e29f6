package scanning

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// VATMatch is the tax found on a receipt. Rate is nil when only the amount
// was printed.
type VATMatch struct {
	Amount decimal.Decimal
	Rate   *int
}

var (
	vatKeywordPattern = regexp.MustCompile(`(?i)(?:vat|btw|podatek)[:\s]*[€e]*\s*([0-9]+[.,][0-9]{2})`)
	vatPercentPattern = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s?%[:\s]*[€e]*\s*([0-9]+[.,][0-9]{2})`)
)

// ExtractVAT tries the keyword form first, then the percentage form. There is
// no fallback scan.
func ExtractVAT(n Normalized) (ExtractedField[VATMatch], bool) {
	if m := vatKeywordPattern.FindStringSubmatch(n.Text); m != nil {
		if amount, ok := parseAmount(m[1]); ok {
			return ExtractedField[VATMatch]{Value: VATMatch{Amount: amount}, Strategy: "keyword"}, true
		}
	}

	for _, m := range vatPercentPattern.FindAllStringSubmatch(n.Text, -1) {
		rate, err := strconv.Atoi(m[1])
		if err != nil || rate < 0 || rate > 100 {
			continue
		}
		amount, ok := parseAmount(m[2])
		if !ok {
			continue
		}
		return ExtractedField[VATMatch]{Value: VATMatch{Amount: amount, Rate: &rate}, Strategy: "percentage"}, true
	}
	return ExtractedField[VATMatch]{}, false
}
