package scanning

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is an OCR language pack code.
type Language string

const (
	LanguagePolish  Language = "pol"
	LanguageDutch   Language = "nld"
	LanguageEnglish Language = "eng"
)

// DefaultLanguage is used when a scan does not name one.
const DefaultLanguage = LanguagePolish

var (
	supportedLanguages = []Language{LanguageEnglish, LanguagePolish, LanguageDutch}
	languageTags       = []language.Tag{language.English, language.Polish, language.Dutch}
	languageMatcher    = language.NewMatcher(languageTags)
)

var languageNames = map[Language]string{
	LanguagePolish:  "Polish",
	LanguageDutch:   "Dutch",
	LanguageEnglish: "English",
}

// Name returns the English name of the language.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

// Valid reports whether l is a supported pack.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage accepts a pack code ("pol") or a BCP 47 tag ("pl-PL").
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if l := Language(s); l.Valid() {
		return l, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing language %q: %w", s, err)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return supportedLanguages[idx], nil
}

// MatchLocale maps an Accept-Language style locale list onto a pack,
// defaulting to English.
func MatchLocale(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEnglish
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return LanguageEnglish
	}
	return supportedLanguages[idx]
}
