package ocr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// transcriptionPrompt is the shared prompt used by all vision model providers
const transcriptionPrompt = `You are reading a photo of a receipt or invoice. Transcribe ALL printed text exactly as it appears, top to bottom, one printed line per output line.

Rules:
- Keep numbers, currency symbols, dates, percentages and punctuation exactly as printed
- Do not translate, summarize, correct or reorder anything
- Do not add commentary, headings or explanations
- Do not use markdown code blocks
- If the image contains no readable text, return an empty response`

func visionPrompt(lang scanning.Language) string {
	return fmt.Sprintf("%s\n\nThe receipt is most likely written in %s.", transcriptionPrompt, lang.Name())
}

// cleanTranscription strips markdown fences models add despite the prompt.
func cleanTranscription(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

var (
	reDate   = regexp.MustCompile(`\b\d{2}[.\-/]\d{2}[.\-/]\d{4}\b|\b\d{4}[.\-/]\d{2}[.\-/]\d{2}\b`)
	reCurr   = regexp.MustCompile(`\b(usd|eur|pln|gbp)\b|[$£€]|zł`)
	reAmount = regexp.MustCompile(`\b\d+[.,]\d{2}\b`)
)

// visionConfidence scores a transcription 0..100. Vision models do not report
// confidence, so we look for the artifacts every receipt carries.
func visionConfidence(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	lower := strings.ToLower(text)
	score := 40.0
	if reDate.MatchString(lower) {
		score += 15
	}
	if reCurr.MatchString(lower) {
		score += 15
	}
	if reAmount.MatchString(lower) {
		score += 15
	}
	if len(text) > 120 {
		score += 10
	}
	if score > 95 {
		score = 95
	}
	return score
}
