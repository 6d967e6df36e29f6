package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// NativeReader reads PDFs in pure Go, without MuPDF.
type NativeReader struct{}

// NewNativeReader creates a NativeReader
func NewNativeReader() *NativeReader {
	return &NativeReader{}
}

// Open implements scanning.PDFReader. The parser panics on some malformed
// files; that is reported as an error.
func (NativeReader) Open(data []byte) (doc scanning.PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("opening PDF: %v", r)
		}
	}()

	// pdf.NewReader expects an io.ReaderAt, which bytes.Reader provides.
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &nativeDocument{reader: r}, nil
}

type nativeDocument struct {
	reader *pdf.Reader
}

func (d *nativeDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageItems returns the text strings of the page row by row.
func (d *nativeDocument) PageItems(page int) (items []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("extracting text of page %d: %v", page+1, r)
		}
	}()

	p := d.reader.Page(page + 1) // pages are 1-indexed
	if p.V.IsNull() {
		return nil, nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("extracting text of page %d: %w", page+1, err)
	}
	for _, row := range rows {
		for _, word := range row.Content {
			if s := strings.TrimSpace(word.S); s != "" {
				items = append(items, s)
			}
		}
	}
	return items, nil
}

func (d *nativeDocument) Close() error {
	return nil
}
