// Package pdftext reads the embedded text layer of PDF documents.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// FitzReader reads PDFs with MuPDF.
type FitzReader struct{}

// NewFitzReader creates a FitzReader
func NewFitzReader() *FitzReader {
	return &FitzReader{}
}

// Open implements scanning.PDFReader.
func (FitzReader) Open(data []byte) (scanning.PDFDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

// PageItems returns the non-empty lines of the page text.
func (d *fitzDocument) PageItems(page int) ([]string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return nil, fmt.Errorf("extracting text of page %d: %w", page+1, err)
	}
	return splitItems(text), nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

func splitItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
