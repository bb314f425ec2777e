// File: services/intelligence/geminiClient.go
package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiClient{model: model}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// generator is satisfied by GeminiClient and by test fakes.
type generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiDateExtractor resolves spoken dates through Gemini. The prompt pins
// the answer to a bare ISO date and the answer is still validated locally;
// the model's output is never trusted into the session unchecked.
type GeminiDateExtractor struct {
	client generator
	now    func() time.Time
}

func NewGeminiDateExtractor(client *GeminiClient) *GeminiDateExtractor {
	return &GeminiDateExtractor{client: client, now: time.Now}
}

const datePromptFormat = "Extrahiere das Datum aus: %q. Heute ist %s. Antworte nur im Format JJJJ-MM-TT."

func (x *GeminiDateExtractor) ExtractDate(ctx context.Context, freeText string) (string, error) {
	prompt := fmt.Sprintf(datePromptFormat, freeText, x.now().Format("2006-01-02"))
	answer, err := x.client.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	candidate := strings.TrimSpace(answer)
	if i := strings.IndexAny(candidate, " \n"); i > 0 {
		candidate = candidate[:i]
	}
	if _, err := time.Parse("2006-01-02", candidate); err != nil {
		return "", fmt.Errorf("unusable date answer %q for utterance %q", answer, freeText)
	}
	return candidate, nil
}
