package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	var (
		input  string
		result Normalized
	)

	JustBeforeEach(func() {
		result = Normalize(input)
	})

	When("the text has mixed line endings and runs of whitespace", func() {
		BeforeEach(func() {
			input = "  ALBERT HEIJN\r\nTOTAAL:   €83.03\n\n\tBTW  "
		})

		It("should collapse whitespace into single spaces", func() {
			Expect(result.Text).To(Equal("ALBERT HEIJN TOTAAL: €83.03 BTW"))
		})

		It("should keep the original lines", func() {
			Expect(result.Lines).To(Equal([]string{"  ALBERT HEIJN", "TOTAAL:   €83.03", "", "\tBTW  "}))
		})
	})

	When("normalizing twice", func() {
		BeforeEach(func() {
			input = "a \r\n b\t\tc\n\n d "
		})

		It("should be idempotent", func() {
			Expect(Normalize(result.Text).Text).To(Equal(result.Text))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			input = ""
		})

		It("should return empty text and one empty line", func() {
			Expect(result.Text).To(BeEmpty())
			Expect(result.Lines).To(Equal([]string{""}))
		})
	})
})

var _ = Describe("RawText", func() {
	It("should join fragments with newlines in order", func() {
		raw := RawText{Fragments: []Fragment{{Page: 1, Text: "first"}, {Page: 2, Text: "second"}}}
		Expect(raw.FullText()).To(Equal("first\nsecond"))
	})
})
