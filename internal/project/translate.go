package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
	"github.com/otsaloma/gaupol-sub002/internal/translate"
)

// translates primary texts into the secondary document as one action,
// returning the number of texts written
//
// Subtitles with blank primary text are skipped.
func (p *Project) FillTranslation(ctx context.Context, t translate.Translator, indices []int) (int, error) {
	indices = p.resolve(indices)
	var items []translate.TranslationItem
	wanted := map[int]bool{}
	for _, i := range indices {
		text := p.subs.At(i).Text(subtitle.Primary)
		if strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, translate.TranslationItem{Index: i, Text: text})
		wanted[i] = true
	}
	if len(items) == 0 {
		return 0, nil
	}

	p.logger.Infow("translating", "texts", len(items))
	results, err := t.Translate(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to translate: %w", err)
	}

	var changed []int
	var texts []string
	for _, r := range results {
		if !wanted[r.Index] {
			p.logger.Warnw("ignoring translation for unknown index", "index", r.Index)
			continue
		}
		delete(wanted, r.Index)
		changed = append(changed, r.Index)
		texts = append(texts, r.Text)
	}
	if len(changed) > 0 {
		p.replaceTexts(changed, subtitle.Secondary, texts, history.Do, "Translating texts")
	}
	return len(changed), nil
}
