package ocr

import (
	"context"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/expense-scanner/internal/scanning"
)

var _ = Describe("vision helpers", func() {
	It("should strip code fences", func() {
		Expect(cleanTranscription("```text\nJUMBO\nTOTAAL 5.00\n```")).To(Equal("JUMBO\nTOTAAL 5.00"))
	})

	It("should score receipt-like text higher than noise", func() {
		Expect(visionConfidence("JUMBO 01.03.2025 TOTAAL €5.00")).To(Equal(85.0))
		Expect(visionConfidence("hello")).To(Equal(40.0))
		Expect(visionConfidence("  ")).To(BeZero())
	})

	It("should mention the language in the prompt", func() {
		Expect(visionPrompt(scanning.LanguagePolish)).To(ContainSubstring("written in Polish"))
	})
})

var _ = Describe("Ollama", func() {
	var (
		server *ghttp.Server
		ollama *Ollama
		result scanning.Recognition
		err    error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		ollama = NewOllama(server.URL(), "llava:1.6")
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		result, err = ollama.Recognize(context.Background(), testPNG(), scanning.LanguageDutch, nil)
	})

	When("the model answers", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					var req ollamaChatRequest
					Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
					Expect(req.Model).To(Equal("llava:1.6"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Images).To(HaveLen(1))
					Expect(req.Messages[1].Content).To(ContainSubstring("Dutch"))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: "```\nJUMBO\nTOTAAL 12.40\n```"},
					Done:    true,
				}),
			))
		})

		It("should return the cleaned transcription", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("JUMBO\nTOTAAL 12.40"))
			Expect(result.Confidence).To(BeNumerically(">", 0))
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, "model not found"))
		})

		It("should return an error with the body", func() {
			Expect(err).To(MatchError(ContainSubstring("status 404")))
			Expect(err).To(MatchError(ContainSubstring("model not found")))
		})
	})
})

var _ = Describe("OpenAI", func() {
	var (
		server *ghttp.Server
		client *OpenAI
		result scanning.Recognition
		err    error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		client, err = NewOpenAI("test-key", server.URL()+"/v1", "gpt-4o")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		result, err = client.Recognize(context.Background(), testPNG(), scanning.LanguageEnglish, nil)
	})

	When("the model answers", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/v1/chat/completions"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer test-key"),
				ghttp.RespondWith(http.StatusOK, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"SHELL\nTOTAL 60.00"},"finish_reason":"stop"}]}`,
					http.Header{"Content-Type": []string{"application/json"}}),
			))
		})

		It("should return the transcription", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("SHELL\nTOTAL 60.00"))
		})
	})
})

var _ = Describe("NewOpenAI", func() {
	When("the API key is missing", func() {
		It("should refuse to build the client", func() {
			_, err := NewOpenAI("", "", "")
			Expect(err).To(MatchError("openai api key is required"))
		})
	})
})
