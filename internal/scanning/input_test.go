package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Input", func() {
	DescribeTable("DetectMimeType",
		func(name string, data []byte, expected string) {
			Expect(DetectMimeType(name, data)).To(Equal(expected))
		},
		Entry("jpeg by extension", "bon.JPG", nil, "image/jpeg"),
		Entry("heic by extension", "IMG_0001.heic", nil, "image/heic"),
		Entry("pdf by extension", "factuur.pdf", nil, "application/pdf"),
		Entry("pdf by content", "download", []byte("%PDF-1.7\n"), "application/pdf"),
		Entry("png by content", "scan", []byte("\x89PNG\r\n\x1a\n0000"), "image/png"),
		Entry("plain text", "notes", []byte("hello"), "text/plain"),
	)

	Describe("NewInput", func() {
		It("should classify by media type", func() {
			Expect(NewInput(nil, "image/HEIC").Kind).To(Equal(KindImage))
			Expect(NewInput(nil, "application/pdf; charset=binary").Kind).To(Equal(KindPDF))
			Expect(NewInput(nil, "text/csv").Kind).To(Equal(KindUnknown))
		})

		It("should record the size", func() {
			Expect(NewInput([]byte("abc"), "image/png").Size).To(Equal(int64(3)))
		})
	})

	Describe("Validate", func() {
		It("should reject images over the size limit", func() {
			in := Input{Kind: KindImage, MimeType: "image/jpeg", Size: MaxImageSize + 1}
			Expect(in.Validate()).To(MatchError(ErrFileTooLarge))
		})

		It("should accept an image at the limit", func() {
			in := Input{Kind: KindImage, MimeType: "image/jpeg", Size: MaxImageSize}
			Expect(in.Validate()).To(Succeed())
		})

		It("should reject unknown kinds", func() {
			Expect(NewInput(nil, "").Validate()).To(MatchError(ErrUnsupportedFileType))
		})
	})
})
