package scanning

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var defaultBrands = []string{
	"HORNBACH BOUWMARKT", "ALBERT HEIJN", "TOTALENERGIES", "MEDIA MARKT", "BURGER KING",
	"MCDONALDS", "STARBUCKS", "RESTAURANT", "HORNBACH", "BOUWMARKT", "COOLBLUE",
	"DECATHLON", "KRUIDVAT", "ACTION", "JUMBO", "LIDL", "ALDI", "PLUS", "DIRK",
	"IKEA", "SHELL", "TOTAL", "ESSO", "TEXACO", "TINQ", "BLOKKER", "XENOS",
	"PRAXIS", "KARWEI", "GAMMA", "KFC", "ETOS", "HEMA", "CAFE", "HOTEL", "LORR",
	"BOL.COM", "BP", "AH", "DA",
}

// BrandCatalog is an ordered list of known merchant names, longest first so
// that "ALBERT HEIJN" is preferred over "AH".
type BrandCatalog struct {
	names    []string
	patterns []*regexp.Regexp
}

// NewBrandCatalog builds a catalog from brand names. Duplicates are dropped.
func NewBrandCatalog(names ...string) *BrandCatalog {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return utf8.RuneCountInString(unique[i]) > utf8.RuneCountInString(unique[j])
	})

	c := &BrandCatalog{names: unique, patterns: make([]*regexp.Regexp, len(unique))}
	for i, name := range unique {
		c.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return c
}

// DefaultBrands returns the built-in catalog.
func DefaultBrands() *BrandCatalog {
	return NewBrandCatalog(defaultBrands...)
}

type brandFile struct {
	Brands []string `yaml:"brands"`
}

// LoadBrandCatalog reads extra brands from a YAML file and merges them with
// the built-in ones.
func LoadBrandCatalog(path string) (*BrandCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading brand file: %w", err)
	}
	var f brandFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing brand file: %w", err)
	}
	return NewBrandCatalog(append(append([]string{}, defaultBrands...), f.Brands...)...), nil
}

// Names returns the brands in match order.
func (c *BrandCatalog) Names() []string {
	return append([]string(nil), c.names...)
}

// labelAmount matches an amount right after a word on the same line, as in
// "TOTAL 12.00" where TOTAL is the label and not the fuel brand.
var labelAmount = regexp.MustCompile(`^[ \t]*:?[ \t]*[€e]?[ \t]*[0-9]+[.,][0-9]{2}`)

// Match returns the first brand found as a whole word anywhere in text.
// Occurrences directly followed by an amount are labels and do not count.
func (c *BrandCatalog) Match(text string) (string, bool) {
	for i, re := range c.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if labelAmount.MatchString(text[loc[1]:]) {
				continue
			}
			return c.names[i], true
		}
	}
	return "", false
}
