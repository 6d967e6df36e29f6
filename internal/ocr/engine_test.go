package ocr

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should default to tesseract", func() {
		recognizer, err := New(ctx, Config{TesseractPSM: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(recognizer).To(BeAssignableToTypeOf(&Tesseract{}))
		Expect(recognizer.(*Tesseract).binary).To(Equal("tesseract"))
		Expect(recognizer.(*Tesseract).psm).To(Equal(4))
	})

	It("should build an ollama recognizer", func() {
		recognizer, err := New(ctx, Config{Engine: EngineOllama, OllamaModel: "qwen2-vl:7b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(recognizer).To(BeAssignableToTypeOf(&Ollama{}))
		Expect(recognizer.(*Ollama).model).To(Equal("qwen2-vl:7b"))
	})

	It("should build an openai recognizer", func() {
		recognizer, err := New(ctx, Config{Engine: EngineOpenAI, OpenAIKey: "sk-test"})
		Expect(err).NotTo(HaveOccurred())
		Expect(recognizer).To(BeAssignableToTypeOf(&OpenAI{}))
	})

	When("the openai key is missing", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("OPENAI_API_KEY", "")
		})

		It("should return an error", func() {
			_, err := New(ctx, Config{Engine: EngineOpenAI})
			Expect(err).To(MatchError("openai api key is required"))
		})
	})

	When("the gemini key is missing", func() {
		BeforeEach(func() {
			GinkgoT().Setenv("GEMINI_API_KEY", "")
		})

		It("should return an error", func() {
			_, err := New(ctx, Config{Engine: EngineGemini})
			Expect(err).To(MatchError("gemini api key is required"))
		})
	})

	It("should reject unknown engines", func() {
		_, err := New(ctx, Config{Engine: "abbyy"})
		Expect(err).To(MatchError(ContainSubstring(`unknown OCR engine "abbyy"`)))
	})
})
