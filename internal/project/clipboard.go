package project

import (
	"fmt"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/clipboard"
	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// mirrors copied texts to c as well; nil keeps them internal
func (p *Project) SetClipboard(c clipboard.Clipboard) {
	p.clipboard = c
}

// texts of the last copy or cut
func (p *Project) CopiedTexts() []string {
	return append([]string(nil), p.copied...)
}

func (p *Project) CopyTexts(indices []int, doc subtitle.Document) error {
	indices = p.resolve(indices)
	texts := make([]string, len(indices))
	for i, index := range indices {
		texts[i] = p.subs.At(index).Text(doc)
	}
	p.copied = texts
	if p.clipboard == nil {
		return nil
	}
	if err := p.clipboard.WriteAll(strings.Join(texts, "\n\n")); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// copies the texts and clears them in one action
func (p *Project) CutTexts(indices []int, doc subtitle.Document) error {
	indices = p.resolve(indices)
	if err := p.CopyTexts(indices, doc); err != nil {
		return err
	}
	p.replaceTexts(indices, doc, make([]string, len(indices)), history.Do, "Cutting texts")
	return nil
}

// writes copied texts into consecutive subtitles starting at index,
// appending blank subtitles when the project runs out, and returns the
// indices written
func (p *Project) PasteTexts(index int, doc subtitle.Document) []int {
	if index < 0 || index > p.subs.Len() {
		panic(fmt.Sprintf("project: paste index %d out of range (0-%d)", index, p.subs.Len()))
	}
	if len(p.copied) == 0 {
		return nil
	}
	texts := append([]string(nil), p.copied...)
	indices := make([]int, len(texts))
	for i := range indices {
		indices[i] = index + i
	}
	p.group(history.Do, "Pasting texts", func() {
		if missing := index + len(texts) - p.subs.Len(); missing > 0 {
			p.InsertBlankSubtitles(p.subs.Len(), missing)
		}
		p.replaceTexts(indices, doc, texts, history.Do, "Pasting texts")
	})
	return indices
}
