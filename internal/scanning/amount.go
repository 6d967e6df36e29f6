package scanning

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ExtractedField is an extracted value with the name of the strategy that found it.
type ExtractedField[T any] struct {
	Value    T
	Strategy string
}

// amountStrategy returns every plausible candidate it can find.
type amountStrategy struct {
	name string
	find func(n Normalized) []decimal.Decimal
}

// Total keywords tolerate OCR misreads: "totaal", "toal" and "tootal" all match to+[ta]+[la]*.
const totalKeyword = `to+[ta]+[la]*|suma|do zap\S*|bet+a[la]*en|razem|podsumowanie`

var (
	keywordThenAmountPattern = regexp.MustCompile(`(?i)(?:` + totalKeyword + `)[:\s]*[€e]*\s*([0-9]+[.,][0-9]{2})`)
	amountThenKeywordPattern = regexp.MustCompile(`(?i)([0-9]+[.,][0-9]{2})\s*(?:to+[ta]+[la]*|suma|zł|eur|€)`)
	lineKeywordPattern       = regexp.MustCompile(`(?i)(?:to+[ta]+[la]*|suma|bet+a[la]*en)`)
	amountTokenPattern       = regexp.MustCompile(`[0-9]+[.,][0-9]{2}`)
)

var (
	keywordAmountThreshold  = decimal.RequireFromString("0.5")
	fallbackAmountThreshold = decimal.RequireFromString("3.0")
)

// amountStrategies is tried in order; the first one with a candidate wins.
var amountStrategies = []amountStrategy{
	{name: "keyword-then-amount", find: keywordThenAmount},
	{name: "amount-then-keyword", find: amountThenKeyword},
	{name: "keyword-then-next-lines", find: keywordThenNextLines},
	{name: "all-amounts", find: allAmounts},
}

// ExtractAmount finds the receipt total: the largest candidate of the first
// strategy that produces any.
func ExtractAmount(n Normalized) (ExtractedField[decimal.Decimal], bool) {
	for _, s := range amountStrategies {
		candidates := s.find(n)
		if len(candidates) == 0 {
			continue
		}
		return ExtractedField[decimal.Decimal]{Value: decimal.Max(candidates[0], candidates[1:]...), Strategy: s.name}, true
	}
	return ExtractedField[decimal.Decimal]{}, false
}

func keywordThenAmount(n Normalized) []decimal.Decimal {
	return submatchAmounts(keywordThenAmountPattern, n.Text, keywordAmountThreshold)
}

// amountThenKeyword runs across line breaks, so "1.99\nTOTAL" counts and
// wins over an amount printed further below the keyword.
func amountThenKeyword(n Normalized) []decimal.Decimal {
	return submatchAmounts(amountThenKeywordPattern, n.Text, keywordAmountThreshold)
}

// keywordThenNextLines handles OCR splitting the keyword and the amount onto
// separate lines: the amount may sit up to three lines below the keyword.
func keywordThenNextLines(n Normalized) []decimal.Decimal {
	var out []decimal.Decimal
	for i, line := range n.Lines {
		if !lineKeywordPattern.MatchString(line) {
			continue
		}
		for j := i + 1; j <= i+3 && j < len(n.Lines); j++ {
			token := amountTokenPattern.FindString(n.Lines[j])
			if token == "" {
				continue
			}
			if amount, ok := parseAmount(token); ok && amount.GreaterThan(keywordAmountThreshold) {
				out = append(out, amount)
			}
			break
		}
	}
	return out
}

// allAmounts collects every amount token above the noise threshold. Tokens
// that are the leading part of a dotted date (01.03.2025) are skipped.
func allAmounts(n Normalized) []decimal.Decimal {
	var out []decimal.Decimal
	for _, loc := range amountTokenPattern.FindAllStringIndex(n.Text, -1) {
		if partOfDate(n.Text, loc[1]) {
			continue
		}
		amount, ok := parseAmount(n.Text[loc[0]:loc[1]])
		if ok && amount.GreaterThan(fallbackAmountThreshold) {
			out = append(out, amount)
		}
	}
	return out
}

func submatchAmounts(re *regexp.Regexp, text string, threshold decimal.Decimal) []decimal.Decimal {
	var out []decimal.Decimal
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if amount, ok := parseAmount(m[1]); ok && amount.GreaterThan(threshold) {
			out = append(out, amount)
		}
	}
	return out
}

func partOfDate(text string, end int) bool {
	if end+1 >= len(text) {
		return false
	}
	switch text[end] {
	case '.', '-', '/':
		c := text[end+1]
		return c >= '0' && c <= '9'
	}
	return false
}

func parseAmount(token string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.Replace(token, ",", ".", 1))
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
