package translate

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type geminiModel struct {
	client *genai.Client
	model  string
}

func newGeminiModel(ctx context.Context, apiKey, model string) (*geminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiModel{client: client, model: model}, nil
}

func (m *geminiModel) complete(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(user), config)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}
	return result.Text(), nil
}
