package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// single subtitle text to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated subtitle text
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
//
// Results come back sorted by index, one per item.
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// parses a provider name
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported translation provider: %s", s)
	}
}

// environment variable holding the provider's API key
func (p Provider) KeyEnv() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
	Concurrency    int // requests in flight (default 3)
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for %s", provider)
	}

	var llm chatModel
	var err error
	switch provider {
	case ProviderGemini:
		llm, err = newGeminiModel(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		llm = newOpenAIModel(apiKey, opts.Model)
	case ProviderAnthropic:
		llm = newAnthropicModel(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return &LLMTranslator{provider: provider, options: opts, llm: llm}, nil
}

// SystemPrompt holds the standing instructions sent with every batch
func SystemPrompt(opts Options) string {
	var sb strings.Builder
	sb.WriteString("You translate subtitle texts for a subtitle editor.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Translate only the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep any markup tags (like <i>, {\\i1} or {y:i}) unchanged.\n")
	sb.WriteString("3. Keep the same number of lines in each text.\n")
	sb.WriteString("4. Reply with a JSON array of objects with 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n")
	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "\nAdditional instructions: %s\n", opts.Prompt)
	}
	return sb.String()
}

// BuildPrompt creates the user message for one batch of items
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder
	if opts.InputLanguage != "" {
		fmt.Fprintf(&sb, "Translate these %s subtitle texts to %s.\n\n",
			opts.InputLanguage, opts.TargetLanguage)
	} else {
		fmt.Fprintf(&sb, "Translate these subtitle texts to %s.\n\n", opts.TargetLanguage)
	}

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	return sb.String()
}
