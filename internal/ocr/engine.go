package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Engine names accepted by New.
const (
	EngineTesseract = "tesseract"
	EngineGemini    = "gemini"
	EngineOpenAI    = "openai"
	EngineOllama    = "ollama"
)

// Config selects and configures a recognizer.
type Config struct {
	Engine string

	TesseractBinary string
	TessdataDir     string
	TesseractPSM    int

	GeminiKey   string
	GeminiModel string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	OllamaURL   string
	OllamaModel string
}

// New builds the recognizer named by cfg.Engine. API keys fall back to
// GEMINI_API_KEY and OPENAI_API_KEY.
func New(ctx context.Context, cfg Config) (scanning.Recognizer, error) {
	switch cfg.Engine {
	case "", EngineTesseract:
		return NewTesseract(cfg.TesseractBinary, cfg.TessdataDir, cfg.TesseractPSM), nil
	case EngineGemini:
		key := cfg.GeminiKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		return NewGemini(ctx, key, cfg.GeminiModel)
	case EngineOpenAI:
		key := cfg.OpenAIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAI(key, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case EngineOllama:
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q (valid: tesseract, gemini, openai, ollama)", cfg.Engine)
	}
}
