package pdftext

import (
	"fmt"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Reader names accepted by New.
const (
	ReaderFitz   = "fitz"
	ReaderNative = "native"
)

// New returns the PDF reader with the given name.
func New(name string) (scanning.PDFReader, error) {
	switch name {
	case "", ReaderFitz:
		return NewFitzReader(), nil
	case ReaderNative:
		return NewNativeReader(), nil
	default:
		return nil, fmt.Errorf("unknown PDF reader %q (valid: fitz, native)", name)
	}
}
