package translate

import (
	"context"
	"fmt"
)

// single-turn chat completion with a system prompt
type chatModel interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// Translator backed by a chat model of one of the providers
type LLMTranslator struct {
	provider Provider
	options  Options
	llm      chatModel
}

func (t *LLMTranslator) Provider() Provider {
	return t.provider
}

func (t *LLMTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	system := SystemPrompt(t.options)
	return translateBatches(
		ctx,
		items,
		t.options.batchSize(),
		t.options.concurrency(),
		func(ctx context.Context, batch []TranslationItem) ([]TranslationResult, error) {
			text, err := t.llm.complete(ctx, system, BuildPrompt(t.options, batch))
			if err != nil {
				return nil, fmt.Errorf("%s request failed: %w", t.provider, err)
			}
			return parseResults(t.provider, text, len(batch))
		},
	)
}
