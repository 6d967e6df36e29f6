package expense

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-scanner/internal/scanning"
)

var _ = Describe("DraftFromScan", func() {
	var (
		data  *scanning.ReceiptData
		index int
		draft *Expense
		err   error
	)

	BeforeEach(func() {
		data = &scanning.ReceiptData{Confidence: 87.6}
		index = 2
	})

	JustBeforeEach(func() {
		draft, err = DraftFromScan(data, index, testNow)
	})

	When("the total and VAT were read", func() {
		BeforeEach(func() {
			data.Total = decPtr("121.00")
			data.VATAmount = decPtr("21.00")
			data.VATRate = intPtr(21)
			data.Supplier = "ALBERT HEIJN"
			data.Date = "2025-03-01"
			data.InvoiceNumber = "4711"
		})

		It("should keep the scanned VAT", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.Gross.StringFixed(2)).To(Equal("121.00"))
			Expect(draft.VAT.StringFixed(2)).To(Equal("21.00"))
			Expect(draft.Net.StringFixed(2)).To(Equal("100.00"))
			Expect(draft.VATRate).To(Equal(21))
		})

		It("should describe the receipt", func() {
			Expect(draft.Description).To(Equal("ALBERT HEIJN - 2025-03-01 - #4711"))
			Expect(draft.Supplier).To(Equal("ALBERT HEIJN"))
			Expect(draft.InvoiceNumber).To(Equal("4711"))
			Expect(draft.Date).To(Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("should note the confidence", func() {
			Expect(draft.Notes).To(Equal("Automatically scanned (88% confidence)"))
			Expect(draft.Currency).To(Equal("EUR"))
		})
	})

	When("only the total was read", func() {
		BeforeEach(func() {
			data.Total = decPtr("12.10")
		})

		It("should derive net and VAT at the default rate", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.VATRate).To(Equal(DefaultVATRate))
			Expect(draft.Net.StringFixed(2)).To(Equal("10.00"))
			Expect(draft.VAT.StringFixed(2)).To(Equal("2.10"))
		})

		It("should fall back to numbered names and today", func() {
			Expect(draft.Description).To(Equal("Receipt 3"))
			Expect(draft.Supplier).To(Equal("Store 3"))
			Expect(draft.Date).To(Equal(testNow))
		})
	})

	When("only the net amount was read", func() {
		BeforeEach(func() {
			data.TotalNet = decPtr("100.00")
			data.VATRate = intPtr(9)
		})

		It("should derive the gross amount", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(draft.Gross.StringFixed(2)).To(Equal("109.00"))
			Expect(draft.VAT.StringFixed(2)).To(Equal("9.00"))
		})
	})

	When("the scanned VAT is not below the total", func() {
		BeforeEach(func() {
			data.Total = decPtr("10.00")
			data.VATAmount = decPtr("10.00")
		})

		It("should compute VAT from the rate", func() {
			Expect(draft.Net.StringFixed(2)).To(Equal("8.26"))
			Expect(draft.VAT.StringFixed(2)).To(Equal("1.74"))
		})
	})

	When("no amount was read", func() {
		BeforeEach(func() {
			data.Supplier = "LIDL"
		})

		It("should return ErrNoAmount", func() {
			Expect(err).To(MatchError(ErrNoAmount))
			Expect(draft).To(BeNil())
		})
	})
})
