package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Tesseract runs the tesseract CLI. The image is piped through stdin and the
// result read back as TSV so that word confidences come along with the text.
type Tesseract struct {
	runner      Runner
	binary      string
	tessdataDir string
	psm         int
}

// NewTesseract creates a Tesseract recognizer using the given binary.
func NewTesseract(binary, tessdataDir string, psm int) *Tesseract {
	return NewTesseractWithRunner(execRunner{}, binary, tessdataDir, psm)
}

// NewTesseractWithRunner creates a Tesseract recognizer with a custom runner for testing
func NewTesseractWithRunner(runner Runner, binary, tessdataDir string, psm int) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{
		runner:      runner,
		binary:      binary,
		tessdataDir: tessdataDir,
		psm:         psm,
	}
}

// Recognize implements scanning.Recognizer.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, lang scanning.Language, progress scanning.ProgressFunc) (scanning.Recognition, error) {
	report(progress, 5)

	data, err := toOCRImage(image)
	if err != nil {
		return scanning.Recognition{}, err
	}
	report(progress, 20)

	// tesseract stdin stdout -l <lang> [--tessdata-dir d] [--psm n] tsv
	args := []string{"stdin", "stdout", "-l", string(lang)}
	if t.tessdataDir != "" {
		args = append(args, "--tessdata-dir", t.tessdataDir)
	}
	if t.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(t.psm))
	}
	args = append(args, "tsv")

	out, errb, err := t.runner.Run(ctx, data, t.binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return scanning.Recognition{}, fmt.Errorf("tesseract: %w", ctxErr)
		}
		return scanning.Recognition{}, fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	report(progress, 90)

	text, confidence := parseTSV(string(out))
	return scanning.Recognition{Text: text, Confidence: confidence}, nil
}

type lineKey struct {
	page, block, par, line string
}

// parseTSV rebuilds the text from word rows, one output line per tesseract
// line, and returns the mean word confidence (0..100).
func parseTSV(out string) (string, float64) {
	var (
		lines   []string
		current lineKey
		words   []string
		sum     float64
		n       int
		started bool
	)
	flush := func() {
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
		words = words[:0]
	}

	for i, row := range strings.Split(out, "\n") {
		if i == 0 || row == "" {
			continue // header
		}
		cols := strings.Split(strings.TrimRight(row, "\r"), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue // only word rows carry text
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		key := lineKey{cols[1], cols[2], cols[3], cols[4]}
		if started && key != current {
			flush()
		}
		current, started = key, true
		words = append(words, word)

		if conf, err := strconv.ParseFloat(cols[10], 64); err == nil && conf >= 0 {
			sum += conf
			n++
		}
	}
	flush()

	if n == 0 {
		return strings.Join(lines, "\n"), 0
	}
	return strings.Join(lines, "\n"), sum / float64(n)
}

func report(progress scanning.ProgressFunc, percent int) {
	if progress != nil {
		progress(percent)
	}
}
