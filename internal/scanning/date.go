package scanning

import (
	"regexp"
	"strconv"
	"time"
)

type datePattern struct {
	name string
	re   *regexp.Regexp
	// positions of year, month and day in the submatches
	year, month, day int
}

var datePatterns = []datePattern{
	{name: "day-month-year", re: regexp.MustCompile(`(\d{2})[.\-/](\d{2})[.\-/](\d{4})`), year: 3, month: 2, day: 1},
	{name: "year-month-day", re: regexp.MustCompile(`(\d{4})[.\-/](\d{2})[.\-/](\d{2})`), year: 1, month: 2, day: 3},
}

const (
	minReceiptYear  = 2000
	maxReceiptYear  = 2100
	maxReceiptYears = 10
)

// ExtractDate finds the transaction date in the raw text. Only the first
// match of each pattern is considered; an implausible date moves on to the
// next pattern.
func ExtractDate(text string, now time.Time) (ExtractedField[string], bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[p.year])
		month, _ := strconv.Atoi(m[p.month])
		day, _ := strconv.Atoi(m[p.day])
		if d, ok := validReceiptDate(year, month, day, now); ok {
			return ExtractedField[string]{Value: d.Format(time.DateOnly), Strategy: p.name}, true
		}
	}
	return ExtractedField[string]{}, false
}

func validReceiptDate(year, month, day int, now time.Time) (time.Time, bool) {
	if year < minReceiptYear || year > maxReceiptYear {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes 31.02 into March; reject anything that moved.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.After(today) || d.Before(today.AddDate(-maxReceiptYears, 0, 0)) {
		return time.Time{}, false
	}
	return d, true
}
