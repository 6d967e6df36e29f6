package scanning

import (
	"context"

	"github.com/shopspring/decimal"
)

// PDFConfidence is reported for every successful text-layer extraction.
const PDFConfidence = 95.0

// ReceiptData contains the fields extracted from a receipt or invoice.
// Every field except RawText and Confidence is optional.
type ReceiptData struct {
	Total         *decimal.Decimal `json:"total,omitempty"`
	TotalNet      *decimal.Decimal `json:"totalNet,omitempty"`
	VATAmount     *decimal.Decimal `json:"vatAmount,omitempty"`
	VATRate       *int             `json:"vatRate,omitempty"`
	Date          string           `json:"date,omitempty"` // YYYY-MM-DD
	Supplier      string           `json:"supplier,omitempty"`
	InvoiceNumber string           `json:"invoiceNumber,omitempty"`
	RawText       string           `json:"rawText"`
	Confidence    float64          `json:"confidence"`

	// Provenance maps a field name to the strategy that produced it.
	Provenance map[string]string `json:"-"`
}

// ScanOptions carries the per-call settings of a scan.
type ScanOptions struct {
	Language Language
	Progress ProgressFunc
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt extracts receipt fields from an image or PDF
	ScanReceipt(ctx context.Context, in Input, opts ScanOptions) (*ReceiptData, error)
	// Close closes the scanner and releases resources
	Close() error
}
