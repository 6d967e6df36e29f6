package scanning

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractSupplier", func() {
	var (
		text   string
		brands *BrandCatalog
		field  ExtractedField[string]
		found  bool
	)

	BeforeEach(func() {
		brands = DefaultBrands()
	})

	JustBeforeEach(func() {
		field, found = ExtractSupplier(text, Normalize(text).Lines, brands)
	})

	When("both a short and a long brand are present", func() {
		BeforeEach(func() {
			text = "AH to go\nALBERT HEIJN 1234\nTOTAAL 5.00"
		})

		It("should prefer the longest brand", func() {
			Expect(found).To(BeTrue())
			Expect(field.Value).To(Equal("ALBERT HEIJN"))
			Expect(field.Strategy).To(Equal("known-brand"))
		})
	})

	When("a brand appears in lower case", func() {
		BeforeEach(func() {
			text = "welkom bij jumbo\n12.00"
		})

		It("should match case-insensitively", func() {
			Expect(field.Value).To(Equal("JUMBO"))
		})
	})

	When("an English total line names a fuel brand", func() {
		BeforeEach(func() {
			text = "Corner Shop\nTOTAL 12.00"
		})

		It("should treat it as a label and use the header", func() {
			Expect(found).To(BeTrue())
			Expect(field.Value).To(Equal("Corner Shop"))
			Expect(field.Strategy).To(Equal("header-line"))
		})
	})

	When("the fuel brand stands on its own", func() {
		BeforeEach(func() {
			text = "TOTAL\nStation 4411\nTOTAAL: 60.50"
		})

		It("should still match the brand", func() {
			Expect(field.Value).To(Equal("TOTAL"))
		})
	})

	When("a header line carries a price", func() {
		BeforeEach(func() {
			text = "Bakkerij Jansen\nKrentenbollen 4.95"
		})

		It("should not be taken as the merchant", func() {
			Expect(field.Value).To(Equal("Bakkerij Jansen"))
		})
	})

	When("a brand only appears inside a longer word", func() {
		BeforeEach(func() {
			text = "AHOLD DELHAIZE\nTOTAAL 5.00"
		})

		It("should not match it", func() {
			Expect(field.Value).To(Equal("AHOLD DELHAIZE"))
			Expect(field.Strategy).To(Equal("header-line"))
		})
	})

	When("no brand is known", func() {
		BeforeEach(func() {
			text = "12 Main Street\n*Bakkerij de Gouden Korst*\nKees\nTel 020 123\n====\nBrood 2.50"
		})

		It("should pick the longest plausible header line and clean it", func() {
			Expect(found).To(BeTrue())
			Expect(field.Value).To(Equal("Bakkerij de Gouden Korst"))
		})
	})

	When("two header candidates have the same length", func() {
		BeforeEach(func() {
			text = "Jan Smit\nPiet Jan\nAb Cd"
		})

		It("should take the later one", func() {
			Expect(field.Value).To(Equal("Piet Jan"))
		})
	})

	When("only the fourth candidate is long", func() {
		BeforeEach(func() {
			text = "Abc\nDef\nGhi\nA much longer merchant name"
		})

		It("should only consider the first three candidates", func() {
			Expect(field.Value).To(Equal("Ghi"))
		})
	})

	When("every header line is boilerplate", func() {
		BeforeEach(func() {
			text = "Receipt\n2025-01-01\nwww.example.com\n(copy)\n||||"
		})

		It("should find nothing", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the cleaned line is too short", func() {
		BeforeEach(func() {
			text = "**A**"
		})

		It("should find nothing", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("a line exceeds fifty characters", func() {
		BeforeEach(func() {
			text = "This merchant name is far too long to be a real header line\nShop"
		})

		It("should skip it", func() {
			Expect(field.Value).To(Equal("Shop"))
		})
	})
})

var _ = Describe("BrandCatalog", func() {
	It("should order brands longest first and keep order among equals", func() {
		catalog := NewBrandCatalog("AH", "LIDL", "ALBERT HEIJN", "ALDI", "lidl")
		Expect(catalog.Names()).To(Equal([]string{"ALBERT HEIJN", "LIDL", "ALDI", "AH"}))
	})

	It("should match names with dots literally", func() {
		catalog := NewBrandCatalog("BOL.COM")
		_, ok := catalog.Match("BOLXCOM")
		Expect(ok).To(BeFalse())
		name, ok := catalog.Match("order via bol.com today")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("BOL.COM"))
	})

	Describe("LoadBrandCatalog", func() {
		var (
			path    string
			catalog *BrandCatalog
			err     error
		)

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "brands.yaml")
		})

		JustBeforeEach(func() {
			catalog, err = LoadBrandCatalog(path)
		})

		When("the file lists extra brands", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(path, []byte("brands:\n  - Bakkerij Bart\n  - Spar\n"), 0644)).To(Succeed())
			})

			It("should merge them with the defaults", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(catalog.Names()).To(ContainElements("BAKKERIJ BART", "SPAR", "ALBERT HEIJN"))
				name, ok := catalog.Match("Bakkerij Bart\nbrood")
				Expect(ok).To(BeTrue())
				Expect(name).To(Equal("BAKKERIJ BART"))
			})
		})

		When("the file is not valid YAML", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(path, []byte("brands: [unclosed"), 0644)).To(Succeed())
			})

			It("should return an error", func() {
				Expect(err).To(MatchError(ContainSubstring("parsing brand file")))
			})
		})

		When("the file does not exist", func() {
			It("should return an error", func() {
				Expect(err).To(MatchError(ContainSubstring("reading brand file")))
			})
		})
	})
})
