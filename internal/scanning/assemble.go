package scanning

import (
	"time"
)

// Assemble runs every field extractor over the source text and merges the
// results. A missing field never fails the assembly.
func Assemble(raw RawText, confidence float64, brands *BrandCatalog, now time.Time) *ReceiptData {
	full := raw.FullText()
	n := Normalize(full)

	data := &ReceiptData{
		RawText:    full,
		Confidence: clampConfidence(confidence),
		Provenance: make(map[string]string),
	}

	if f, ok := ExtractAmount(n); ok {
		v := f.Value
		data.Total = &v
		data.Provenance["total"] = f.Strategy
	}
	if f, ok := ExtractDate(full, now); ok {
		data.Date = f.Value
		data.Provenance["date"] = f.Strategy
	}
	if f, ok := ExtractVAT(n); ok {
		v := f.Value.Amount
		data.VATAmount = &v
		data.VATRate = f.Value.Rate
		data.Provenance["vat"] = f.Strategy
	}
	if f, ok := ExtractSupplier(full, n.Lines, brands); ok {
		data.Supplier = f.Value
		data.Provenance["supplier"] = f.Strategy
	}
	if f, ok := ExtractDocumentNumber(n); ok {
		data.InvoiceNumber = f.Value
		data.Provenance["invoiceNumber"] = f.Strategy
	}

	if data.Total != nil && data.VATAmount != nil {
		// monetary fields stay positive; a VAT larger than the total is noise
		if net := data.Total.Sub(*data.VATAmount); net.IsPositive() {
			data.TotalNet = &net
		}
	}
	return data
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}
