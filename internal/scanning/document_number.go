package scanning

import (
	"regexp"
	"strings"
)

const maxDocumentNumberLength = 30

var documentNumberPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{name: "number-keyword", re: documentNumberPattern(`nr|no|number|numer|bon`)},
	{name: "receipt-keyword", re: documentNumberPattern(`paragon|receipt|bon`)},
}

// documentNumberPattern lets keywords chain ("Bon nr: 1234") so the token
// after the last keyword is the one captured.
func documentNumberPattern(keywords string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:(?:` + keywords + `)\b[.:#\s]*)+([A-Z0-9][A-Z0-9\-/]*)`)
}

var hasDigit = regexp.MustCompile(`[0-9]`)

// ExtractDocumentNumber finds an invoice or receipt number. Tokens without a
// digit are ignored so that "Receipt: Thank you" does not produce "Thank".
func ExtractDocumentNumber(n Normalized) (ExtractedField[string], bool) {
	for _, p := range documentNumberPatterns {
		for _, m := range p.re.FindAllStringSubmatch(n.Text, -1) {
			token := strings.TrimSpace(m[1])
			if len(token) >= maxDocumentNumberLength || !hasDigit.MatchString(token) {
				continue
			}
			return ExtractedField[string]{Value: token, Strategy: p.name}, true
		}
	}
	return ExtractedField[string]{}, false
}
