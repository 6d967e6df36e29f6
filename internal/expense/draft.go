package expense

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// ErrNoAmount is returned when a scan found neither a total nor a net amount.
var ErrNoAmount = errors.New("no amount found on receipt")

// DraftFromScan turns a scan result into an unsaved expense. index is the
// position of the file in its batch and numbers the fallback names.
func DraftFromScan(data *scanning.ReceiptData, index int, now time.Time) (*Expense, error) {
	gross := data.Total != nil && data.Total.IsPositive()
	if !gross && (data.TotalNet == nil || !data.TotalNet.IsPositive()) {
		return nil, ErrNoAmount
	}

	rate := DefaultVATRate
	if data.VATRate != nil {
		rate = *data.VATRate
	}

	e := &Expense{
		VATRate:       rate,
		Currency:      DefaultCurrency,
		InvoiceNumber: data.InvoiceNumber,
		Confidence:    data.Confidence,
		Notes:         fmt.Sprintf("Automatically scanned (%d%% confidence)", int(math.Round(data.Confidence))),
	}

	if gross {
		e.Gross = *data.Total
		if data.VATAmount != nil && data.VATAmount.LessThan(e.Gross) {
			e.VAT = *data.VATAmount
			e.Net = e.Gross.Sub(e.VAT)
		} else {
			e.Net = NetFromGross(e.Gross, rate)
			e.VAT = e.Gross.Sub(e.Net)
		}
	} else {
		e.Net = *data.TotalNet
		e.Gross = GrossFromNet(e.Net, rate)
		e.VAT = e.Gross.Sub(e.Net)
	}

	e.Date = now
	if data.Date != "" {
		if d, err := time.Parse(time.DateOnly, data.Date); err == nil {
			e.Date = d
		}
	}

	e.Supplier = data.Supplier
	if e.Supplier == "" {
		e.Supplier = fmt.Sprintf("Store %d", index+1)
	}

	var parts []string
	if data.Supplier != "" {
		parts = append(parts, data.Supplier)
	}
	if data.Date != "" {
		parts = append(parts, data.Date)
	}
	if data.InvoiceNumber != "" {
		parts = append(parts, "#"+data.InvoiceNumber)
	}
	e.Description = strings.Join(parts, " - ")
	if e.Description == "" {
		e.Description = fmt.Sprintf("Receipt %d", index+1)
	}

	return e, nil
}
