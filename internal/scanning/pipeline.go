package scanning

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Recognition is the output of an OCR engine.
type Recognition struct {
	Text       string
	Confidence float64 // 0..100
}

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, lang Language, progress ProgressFunc) (Recognition, error)
}

// PDFReader opens documents for text-layer extraction.
type PDFReader interface {
	Open(data []byte) (PDFDocument, error)
}

// PDFDocument gives access to the text items of each page.
type PDFDocument interface {
	PageCount() int
	PageItems(page int) ([]string, error)
	Close() error
}

// Pipeline implements Scanner on top of an OCR engine and a PDF reader.
type Pipeline struct {
	recognizer         Recognizer
	pdf                PDFReader
	brands             *BrandCatalog
	now                func() time.Time
	logger             *slog.Logger
	preprocess         bool
	recognitionTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPreprocessing enables image pre-processing before OCR.
func WithPreprocessing(enabled bool) Option {
	return func(p *Pipeline) { p.preprocess = enabled }
}

// WithClock sets the clock used to validate dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithRecognitionTimeout bounds each OCR call. Zero means no limit.
func WithRecognitionTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.recognitionTimeout = d }
}

// WithBrands replaces the default brand catalog.
func WithBrands(brands *BrandCatalog) Option {
	return func(p *Pipeline) { p.brands = brands }
}

// NewPipeline creates a Pipeline. Either collaborator may be nil, in which
// case inputs needing it fail.
func NewPipeline(recognizer Recognizer, pdf PDFReader, opts ...Option) *Pipeline {
	p := &Pipeline{
		recognizer: recognizer,
		pdf:        pdf,
		brands:     DefaultBrands(),
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScanReceipt acquires the text of the input and extracts receipt fields.
func (p *Pipeline) ScanReceipt(ctx context.Context, in Input, opts ScanOptions) (*ReceiptData, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	prog := newProgress(opts.Progress)
	start := time.Now()

	var (
		raw        RawText
		confidence float64
		err        error
	)
	switch in.Kind {
	case KindPDF:
		raw, err = p.readPDF(ctx, in.Data, prog)
		confidence = PDFConfidence
	default:
		raw, confidence, err = p.recognize(ctx, in, lang, prog)
	}
	if err != nil {
		p.logger.Warn("scan failed",
			"kind", in.Kind.String(),
			"content_type", in.MimeType,
			"file_size", in.Size,
			"error", err,
		)
		return nil, err
	}

	data := Assemble(raw, confidence, p.brands, p.now())
	prog.report(100)

	p.logger.Info("scan complete",
		"kind", in.Kind.String(),
		"language", string(lang),
		"confidence", data.Confidence,
		"strategies", data.Provenance,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}

func (p *Pipeline) readPDF(ctx context.Context, data []byte, prog *progress) (RawText, error) {
	if p.pdf == nil {
		return RawText{}, &ScanError{Kind: ErrUnreadablePDF, Message: "PDF reading is not configured"}
	}

	doc, err := p.pdf.Open(data)
	if err != nil {
		return RawText{}, corruptPDF(err)
	}
	defer doc.Close()

	prog.report(0)
	pages := doc.PageCount()
	raw := RawText{Fragments: make([]Fragment, 0, pages)}
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return RawText{}, err
		}
		items, err := doc.PageItems(i)
		if err != nil {
			return RawText{}, corruptPDF(err)
		}
		raw.Fragments = append(raw.Fragments, Fragment{Page: i + 1, Text: strings.Join(items, " ")})
		prog.report((i + 1) * 100 / pages)
	}

	if strings.TrimSpace(raw.FullText()) == "" {
		return RawText{}, &ScanError{
			Kind:       ErrUnreadablePDF,
			Message:    "PDF has no text layer, it is probably a scanned image",
			Suggestion: "Make sure it is a PDF with text, not a scan. Upload a photo of the receipt instead.",
		}
	}
	return raw, nil
}

func corruptPDF(err error) error {
	return &ScanError{
		Kind:       ErrUnreadablePDF,
		Message:    "PDF could not be read, the file is damaged or not a PDF",
		Suggestion: "Make sure it is a PDF with text, not a scan.",
		Err:        err,
	}
}

func (p *Pipeline) recognize(ctx context.Context, in Input, lang Language, prog *progress) (RawText, float64, error) {
	if p.recognizer == nil {
		return RawText{}, 0, &ScanError{Kind: ErrRecognitionFailed, Message: "no OCR engine is configured"}
	}

	image := in.Data
	if p.preprocess {
		image, _ = Preprocess(in.Data, in.MimeType)
	}

	if p.recognitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.recognitionTimeout)
		defer cancel()
	}

	prog.report(0)
	rec, err := p.recognizer.Recognize(ctx, image, lang, prog.report)
	if err != nil {
		return RawText{}, 0, classifyRecognitionError(err)
	}
	return RawText{Fragments: []Fragment{{Page: 1, Text: rec.Text}}}, rec.Confidence, nil
}

// Close releases the OCR engine when it holds resources.
func (p *Pipeline) Close() error {
	var errs []error
	if c, ok := p.recognizer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := p.pdf.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
