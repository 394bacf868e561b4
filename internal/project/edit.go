package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// inserts subs so that each lands at the matching index, which must be
// ascending
func (p *Project) InsertSubtitles(indices []int, subs []*subtitle.Subtitle) {
	p.insertSubtitles(indices, subs, history.Do, "Inserting subtitles")
}

func (p *Project) insertSubtitles(indices []int, subs []*subtitle.Subtitle, reg history.Register, description string) {
	if len(indices) != len(subs) {
		panic(fmt.Sprintf("project: %d indices for %d subtitles", len(indices), len(subs)))
	}
	if !sort.IntsAreSorted(indices) {
		panic(fmt.Sprintf("project: insert indices %v not ascending", indices))
	}
	for i, index := range indices {
		p.subs.Insert(index, subs[i])
	}
	p.assertOrdered(indices)

	indices = append([]int(nil), indices...)
	p.emit(Event{Kind: SubtitlesInserted, Indices: indices})
	p.record(reg, bothDocs, description, func(r history.Register) {
		p.removeSubtitles(indices, r, description)
	})
}

// blank subtitles spanning the gap at index
func (p *Project) InsertBlankSubtitles(index, count int) []int {
	subs := p.subs.BlankSubtitles(index, count, p.NewSubtitle)
	indices := make([]int, count)
	for i := range indices {
		indices[i] = index + i
	}
	p.insertSubtitles(indices, subs, history.Do, "Inserting blank subtitles")
	return indices
}

func (p *Project) RemoveSubtitles(indices []int) {
	p.removeSubtitles(indices, history.Do, "Removing subtitles")
}

func (p *Project) removeSubtitles(indices []int, reg history.Register, description string) {
	indices = sortedUnique(indices)
	for _, i := range indices {
		p.checkIndex(i)
	}
	removed := make([]*subtitle.Subtitle, len(indices))
	for i := len(indices) - 1; i >= 0; i-- {
		removed[i] = p.subs.Remove(indices[i])
	}

	p.emit(Event{Kind: SubtitlesRemoved, Indices: indices})
	p.record(reg, bothDocs, description, func(r history.Register) {
		p.insertSubtitles(indices, removed, r, description)
	})
}

// joins a contiguous range into one subtitle spanning it, texts joined by
// line breaks with empty fragments skipped
func (p *Project) MergeSubtitles(indices []int) {
	indices = sortedUnique(indices)
	if len(indices) < 2 {
		panic(fmt.Sprintf("project: cannot merge %d subtitles", len(indices)))
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			panic(fmt.Sprintf("project: merge range %v not contiguous", indices))
		}
	}
	first := p.subs.At(indices[0])
	last := p.subs.At(indices[len(indices)-1])

	merged := first.Copy()
	merged.SetEnd(last.End())
	for _, doc := range subtitle.Documents {
		var parts []string
		for _, i := range indices {
			if text := p.subs.At(i).Text(doc); strings.TrimSpace(text) != "" {
				parts = append(parts, text)
			}
		}
		merged.SetText(doc, strings.Join(parts, "\n"))
	}

	p.group(history.Do, "Merging subtitles", func() {
		p.removeSubtitles(indices, history.Do, "Removing subtitles")
		p.insertSubtitles(indices[:1], []*subtitle.Subtitle{merged}, history.Do, "Inserting subtitles")
	})
}

// cuts a subtitle in two at its midpoint, both halves keeping the text
func (p *Project) SplitSubtitle(index int) {
	p.checkIndex(index)
	sub := p.subs.At(index)
	calc := sub.Calculator()
	half := calc.Duration(sub.Start(), sub.End())
	if half.IsFrame() {
		half = position.FromFrame(half.Frame() / 2)
	} else {
		half = position.FromTime(half.Time() / 2)
	}
	middle := calc.Add(sub.Start(), half)

	first := sub.Copy()
	first.SetEnd(middle)
	second := sub.Copy()
	second.SetStart(middle)

	p.group(history.Do, "Splitting subtitle", func() {
		p.removeSubtitles([]int{index}, history.Do, "Removing subtitles")
		p.insertSubtitles([]int{index, index + 1}, []*subtitle.Subtitle{first, second}, history.Do, "Inserting subtitles")
	})
}

// sets the start and moves the subtitle to keep order, returning its index
func (p *Project) SetStart(index int, pos position.Position) int {
	p.checkIndex(index)
	sub := p.subs.At(index)
	indices := p.setPositions(
		[]*subtitle.Subtitle{sub},
		[]position.Position{pos},
		[]position.Position{sub.End()},
		nil,
		history.Do,
		"Editing start position",
	)
	return indices[0]
}

func (p *Project) SetEnd(index int, pos position.Position) {
	p.checkIndex(index)
	sub := p.subs.At(index)
	p.setPositions(
		[]*subtitle.Subtitle{sub},
		[]position.Position{sub.Start()},
		[]position.Position{pos},
		nil,
		history.Do,
		"Editing end position",
	)
}

// sets end to start plus the given span
func (p *Project) SetDuration(index int, span position.Position) {
	p.checkIndex(index)
	sub := p.subs.At(index)
	p.setPositions(
		[]*subtitle.Subtitle{sub},
		[]position.Position{sub.Start()},
		[]position.Position{sub.Calculator().Add(sub.Start(), span)},
		nil,
		history.Do,
		"Editing duration",
	)
}

// assigns positions to subs, identified by pointer, then restores order
//
// With targets the subs are put back at exactly those indices, which is how
// a revert rebuilds the previous layout. Otherwise subs are moved only when
// the new positions break the order. Returns the final index of each sub.
func (p *Project) setPositions(
	subs []*subtitle.Subtitle,
	starts, ends []position.Position,
	targets []int,
	reg history.Register,
	description string,
) []int {
	if len(starts) != len(subs) || len(ends) != len(subs) {
		panic("project: position count does not match subtitles")
	}
	oldIndices := make([]int, len(subs))
	oldStarts := make([]position.Position, len(subs))
	oldEnds := make([]position.Position, len(subs))
	for i, sub := range subs {
		oldIndices[i] = p.subs.Index(sub)
		if oldIndices[i] < 0 {
			panic("project: subtitle not in project")
		}
		oldStarts[i], oldEnds[i] = sub.Start(), sub.End()
		sub.SetStart(starts[i])
		sub.SetEnd(ends[i])
	}

	newIndices := oldIndices
	switch {
	case targets != nil && !equalInts(targets, oldIndices):
		p.subs.Relocate(subs, targets)
		newIndices = append([]int(nil), targets...)
	case targets == nil && !p.subs.Sorted():
		newIndices = p.subs.Resort(subs)
	}
	if !equalInts(newIndices, oldIndices) {
		p.emit(Event{Kind: SubtitlesRemoved, Indices: sortedUnique(oldIndices)})
		p.emit(Event{Kind: SubtitlesInserted, Indices: sortedUnique(newIndices)})
	}
	p.emit(Event{Kind: PositionsChanged, Indices: sortedUnique(newIndices)})

	p.record(reg, bothDocs, description, func(r history.Register) {
		p.setPositions(subs, oldStarts, oldEnds, oldIndices, r, description)
	})
	return newIndices
}

func (p *Project) SetText(index int, doc subtitle.Document, text string) {
	p.replaceTexts([]int{index}, doc, []string{text}, history.Do, "Editing text")
}

func (p *Project) ReplaceTexts(indices []int, doc subtitle.Document, texts []string) {
	p.replaceTexts(indices, doc, texts, history.Do, "Replacing texts")
}

func (p *Project) ClearTexts(indices []int, doc subtitle.Document) {
	indices = p.resolve(indices)
	p.replaceTexts(indices, doc, make([]string, len(indices)), history.Do, "Clearing texts")
}

// rewraps texts into balanced lines
func (p *Project) BreakLines(indices []int, doc subtitle.Document, breaker *subtitle.LineBreaker) {
	indices = p.resolve(indices)
	var changed []int
	var texts []string
	for _, i := range indices {
		text := p.subs.At(i).Text(doc)
		if broken := breaker.Break(text); broken != text {
			changed = append(changed, i)
			texts = append(texts, broken)
		}
	}
	if len(changed) == 0 {
		return
	}
	p.replaceTexts(changed, doc, texts, history.Do, "Breaking lines")
}

func (p *Project) replaceTexts(indices []int, doc subtitle.Document, texts []string, reg history.Register, description string) {
	if len(indices) != len(texts) {
		panic(fmt.Sprintf("project: %d indices for %d texts", len(indices), len(texts)))
	}
	indices = append([]int(nil), indices...)
	olds := make([]string, len(indices))
	for i, index := range indices {
		p.checkIndex(index)
		sub := p.subs.At(index)
		olds[i] = sub.Text(doc)
		sub.SetText(doc, texts[i])
	}

	p.emit(Event{Kind: TextsChanged, Indices: indices, Doc: doc})
	p.record(reg, []subtitle.Document{doc}, description, func(r history.Register) {
		p.replaceTexts(indices, doc, olds, r, description)
	})
}

func (p *Project) assertOrdered(indices []int) {
	for _, i := range indices {
		sub := p.subs.At(i)
		if i > 0 && sub.Less(p.subs.At(i-1)) {
			panic(fmt.Sprintf("project: subtitle inserted at %d starts before its predecessor", i))
		}
		if i < p.subs.Len()-1 && p.subs.At(i+1).Less(sub) {
			panic(fmt.Sprintf("project: subtitle inserted at %d starts after its successor", i))
		}
	}
}

func sortedUnique(indices []int) []int {
	out := append([]int(nil), indices...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
