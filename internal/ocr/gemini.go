package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// Gemini implements scanning.Recognizer using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini recognizer
func NewGemini(ctx context.Context, apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Recognize transcribes the receipt image
func (g *Gemini) Recognize(ctx context.Context, image []byte, lang scanning.Language, progress scanning.ProgressFunc) (scanning.Recognition, error) {
	pngData, err := toPNG(image)
	if err != nil {
		return scanning.Recognition{}, err
	}
	report(progress, 10)

	// genai.ImageData expects just the format suffix (e.g., "png"), not the full MIME type
	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData("png", pngData),
		genai.Text(visionPrompt(lang)),
	)
	if err != nil {
		return scanning.Recognition{}, fmt.Errorf("generating content: %w", err)
	}
	report(progress, 90)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return scanning.Recognition{}, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	text := cleanTranscription(responseText.String())
	return scanning.Recognition{Text: text, Confidence: visionConfidence(text)}, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
