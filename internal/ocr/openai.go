package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// OpenAI implements scanning.Recognizer using an OpenAI-compatible vision model
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI recognizer. baseURL may point at any
// OpenAI-compatible endpoint; empty uses the public API.
func NewOpenAI(apiKey, baseURL, modelName string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}, nil
}

// Recognize transcribes the receipt image
func (o *OpenAI) Recognize(ctx context.Context, image []byte, lang scanning.Language, progress scanning.ProgressFunc) (scanning.Recognition, error) {
	pngData, err := toPNG(image)
	if err != nil {
		return scanning.Recognition{}, err
	}
	report(progress, 10)

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an OCR engine. You output the exact text printed on documents and nothing else.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt(lang)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	})
	if err != nil {
		return scanning.Recognition{}, fmt.Errorf("creating chat completion: %w", err)
	}
	report(progress, 90)

	if len(resp.Choices) == 0 {
		return scanning.Recognition{}, fmt.Errorf("no response from openai")
	}

	text := cleanTranscription(resp.Choices[0].Message.Content)
	return scanning.Recognition{Text: text, Confidence: visionConfidence(text)}, nil
}
