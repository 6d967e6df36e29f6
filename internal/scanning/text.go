package scanning

import (
	"regexp"
	"strings"
)

// Fragment is the text of one page or OCR region.
type Fragment struct {
	Page int
	Text string
}

// RawText is the ordered text pulled out of a source document.
type RawText struct {
	Fragments []Fragment
}

// FullText joins all fragments with newlines.
func (r RawText) FullText() string {
	parts := make([]string, len(r.Fragments))
	for i, f := range r.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, "\n")
}

// Normalized is the pattern-matching view of a text.
type Normalized struct {
	// Text has every whitespace run collapsed to one space.
	Text string
	// Lines keeps the original line structure.
	Lines []string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize prepares text for the field extractors.
func Normalize(text string) Normalized {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Normalized{
		Text:  strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " ")),
		Lines: strings.Split(text, "\n"),
	}
}
