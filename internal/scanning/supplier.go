package scanning

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	supplierHeaderLines = 8
	supplierCandidates  = 3
	supplierMinLength   = 3
	supplierMaxLength   = 50
)

var (
	receiptBoilerplate = regexp.MustCompile(`(?i)(?:paragon|receipt|bon|kvitantie|klantenbon|datum|date|tijd|time)`)
	addressBoilerplate = regexp.MustCompile(`(?i)(?:adres|address|straat|tel|phone|www|http|btw|vat|filiaal)`)
	stationBoilerplate = regexp.MustCompile(`(?i)(?:station|pomp|pump|terminal|merchant)`)
	bracketChars       = regexp.MustCompile(`[{}\[\]()]`)
	separatorRun       = regexp.MustCompile(`[|_=]{2,}`)
	decorativeChars    = regexp.MustCompile(`[®™©|_=*+]`)
	bracketNoise       = regexp.MustCompile(`[{}\[\]]{2,}`)
)

// ExtractSupplier looks for a known brand first and falls back to guessing
// the merchant from the header lines.
func ExtractSupplier(text string, lines []string, brands *BrandCatalog) (ExtractedField[string], bool) {
	if brands == nil {
		brands = DefaultBrands()
	}
	if brand, ok := brands.Match(text); ok {
		return ExtractedField[string]{Value: brand, Strategy: "known-brand"}, true
	}
	if name, ok := supplierFromHeader(lines); ok {
		return ExtractedField[string]{Value: name, Strategy: "header-line"}, true
	}
	return ExtractedField[string]{}, false
}

func supplierFromHeader(lines []string) (string, bool) {
	if len(lines) > supplierHeaderLines {
		lines = lines[:supplierHeaderLines]
	}

	var candidates []string
	for _, line := range lines {
		if plausibleSupplierLine(line) {
			candidates = append(candidates, line)
		}
		if len(candidates) == supplierCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		// ties go to the later line
		if utf8.RuneCountInString(c) >= utf8.RuneCountInString(best) {
			best = c
		}
	}

	name := strings.TrimSpace(best)
	name = decorativeChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
	name = truncateRunes(name, supplierMaxLength)

	if utf8.RuneCountInString(name) < supplierMinLength || bracketNoise.MatchString(name) {
		return "", false
	}
	return name, true
}

func plausibleSupplierLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	n := utf8.RuneCountInString(trimmed)
	if n < supplierMinLength || n > supplierMaxLength {
		return false
	}
	if trimmed[0] >= '0' && trimmed[0] <= '9' {
		return false
	}
	switch {
	case receiptBoilerplate.MatchString(line),
		addressBoilerplate.MatchString(line),
		stationBoilerplate.MatchString(line),
		bracketChars.MatchString(line),
		separatorRun.MatchString(line),
		amountTokenPattern.MatchString(line):
		return false
	}
	return true
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
