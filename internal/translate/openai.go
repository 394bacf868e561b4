package translate

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIModel struct {
	client openai.Client
	model  string
}

func newOpenAIModel(apiKey, model string) *openAIModel {
	if model == "" {
		model = "gpt-5-mini"
	}
	return &openAIModel{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (m *openAIModel) complete(ctx context.Context, system, user string) (string, error) {
	completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
