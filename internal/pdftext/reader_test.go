package pdftext

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-scanner/internal/scanning"
)

var _ = DescribeTable("PDF readers",
	func(reader scanning.PDFReader) {
		doc, err := reader.Open(buildPDF("LIDL TOTAL 12.50", ""))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(doc.Close)

		Expect(doc.PageCount()).To(Equal(2))

		items, err := doc.PageItems(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Join(items, " ")).To(Equal("LIDL TOTAL 12.50"))

		items, err = doc.PageItems(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(BeEmpty())
	},
	Entry("MuPDF", scanning.PDFReader(NewFitzReader())),
	Entry("native", scanning.PDFReader(NewNativeReader())),
)

var _ = DescribeTable("reading bytes that are not a PDF",
	func(reader scanning.PDFReader) {
		_, err := reader.Open([]byte("this is not a pdf"))
		Expect(err).To(MatchError(ContainSubstring("opening PDF")))
	},
	Entry("MuPDF", scanning.PDFReader(NewFitzReader())),
	Entry("native", scanning.PDFReader(NewNativeReader())),
)

var _ = Describe("splitItems", func() {
	It("should drop blank lines and trim", func() {
		Expect(splitItems("  JUMBO \n\n TOTAAL 5.00\n")).To(Equal([]string{"JUMBO", "TOTAAL 5.00"}))
	})
})

var _ = DescribeTable("New",
	func(name string, expected scanning.PDFReader) {
		reader, err := New(name)
		Expect(err).NotTo(HaveOccurred())
		Expect(reader).To(BeAssignableToTypeOf(expected))
	},
	Entry("defaults to MuPDF", "", &FitzReader{}),
	Entry("MuPDF", "fitz", &FitzReader{}),
	Entry("native", "native", &NativeReader{}),
)

var _ = It("rejects unknown PDF readers", func() {
	_, err := New("poppler")
	Expect(err).To(MatchError(ContainSubstring(`unknown PDF reader "poppler"`)))
})
