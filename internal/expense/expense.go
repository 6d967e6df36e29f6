package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an expense does not name one
const DefaultCurrency = "EUR"

// Expense represents a booked cost with its receipt file
type Expense struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Supplier      string          `json:"supplier"`
	Date          time.Time       `json:"date"`
	Net           decimal.Decimal `json:"net"`
	VAT           decimal.Decimal `json:"vat"`
	Gross         decimal.Decimal `json:"gross"`
	VATRate       int             `json:"vat_rate"`
	Currency      string          `json:"currency"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Confidence    float64         `json:"confidence,omitempty"`
	Filename      string          `json:"filename,omitempty"`
	ContentType   string          `json:"content_type,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UploadedFile is a receipt file received from a client
type UploadedFile struct {
	Name        string
	Data        []byte
	ContentType string
}
