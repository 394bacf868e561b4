package project

import (
	"errors"
	"fmt"

	"github.com/otsaloma/gaupol-sub002/internal/config"
	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/search"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

var ErrNoPattern = errors.New("no search pattern set")

type SearchOptions struct {
	Regex      bool
	IgnoreCase bool
}

// match span in bytes within the text of one subtitle document
type Match struct {
	Index int
	Doc   subtitle.Document
	Start int
	End   int
}

// one (index, document) pair of the search sequence
type unit struct {
	index int
	doc   subtitle.Document
}

type searchState struct {
	finder  *search.Finder
	indices []int
	docs    []subtitle.Document
	wrap    bool

	// position in the unit sequence of the last match, -1 before any
	current int
	loaded  unit
	match   *Match
}

func newSearchState(cfg *config.Config) *searchState {
	s := &searchState{
		finder: search.NewFinder(),
		docs:   append([]subtitle.Document(nil), subtitle.Documents...),
		wrap:   cfg.Search.Wrap,
	}
	s.reset()
	return s
}

func (s *searchState) reset() {
	s.current = -1
	s.loaded = unit{index: -1}
	s.match = nil
}

// default options from configuration
func (p *Project) SearchOptions() SearchOptions {
	return SearchOptions{Regex: p.cfg.Search.Regex, IgnoreCase: p.cfg.Search.IgnoreCase}
}

// restricts the search to indices (nil for all) and docs in the given order
func (p *Project) SetSearchTarget(indices []int, docs []subtitle.Document, wrap bool) {
	if len(docs) == 0 {
		docs = subtitle.Documents
	}
	p.search.indices = append([]int(nil), indices...)
	if indices == nil {
		p.search.indices = nil
	}
	p.search.docs = append([]subtitle.Document(nil), docs...)
	p.search.wrap = wrap
	p.search.reset()
}

func (p *Project) SetSearchPattern(pattern string, opts SearchOptions) error {
	var err error
	if opts.Regex {
		err = p.search.finder.SetRegex(pattern, opts.IgnoreCase)
	} else {
		err = p.search.finder.SetPattern(pattern, opts.IgnoreCase)
	}
	if err != nil {
		return fmt.Errorf("failed to set search pattern: %w", err)
	}
	p.search.reset()
	return nil
}

// replacement text; regex replacements expand $1 style groups
func (p *Project) SetReplacement(replacement string) {
	p.search.finder.SetReplacement(replacement)
}

// current match, if any
func (p *Project) CurrentMatch() (Match, bool) {
	if p.search.match == nil {
		return Match{}, false
	}
	return *p.search.match, true
}

func (p *Project) searchUnits() []unit {
	var indices []int
	if p.search.indices == nil {
		indices = p.resolve(nil)
	} else {
		for _, i := range p.search.indices {
			if i >= 0 && i < p.subs.Len() {
				indices = append(indices, i)
			}
		}
	}
	units := make([]unit, 0, len(indices)*len(p.search.docs))
	for _, doc := range p.search.docs {
		for _, i := range indices {
			units = append(units, unit{index: i, doc: doc})
		}
	}
	return units
}

// finds the next match after the current one, moving across subtitles and
// documents and wrapping around when enabled
func (p *Project) FindNext() (Match, error) {
	return p.find(true)
}

// finds the match before the current one
func (p *Project) FindPrevious() (Match, error) {
	return p.find(false)
}

// walks the unit sequence from the current unit
//
// The first step continues inside the current unit from the cursor. A full
// loop ends back at the starting unit, which is then searched from its edge
// so that a lone match is found again rather than reported missing.
func (p *Project) find(forward bool) (Match, error) {
	s := p.search
	if !s.finder.HasPattern() {
		return Match{}, ErrNoPattern
	}
	units := p.searchUnits()
	n := len(units)
	if n == 0 {
		return Match{}, search.ErrNoMatch
	}

	startUnit := s.current
	resume := startUnit >= 0 && startUnit < n
	if !resume {
		startUnit = 0
		if !forward {
			startUnit = n - 1
		}
	}

	for step := 0; step <= n; step++ {
		u := startUnit - step
		if forward {
			u = startUnit + step
		}
		if u < 0 || u >= n {
			if !s.wrap {
				break
			}
			u = (u%n + n) % n
		}
		cur := units[u]
		text := p.subs.At(cur.index).Text(cur.doc)

		if step > 0 || !resume || s.loaded != cur || s.finder.Text() != text {
			s.finder.SetText(text)
			if forward {
				s.finder.SetPosition(0)
			} else {
				s.finder.SetPosition(len(text))
			}
			s.loaded = cur
		}

		var start, end int
		var err error
		if forward {
			start, end, err = s.finder.Next()
		} else {
			start, end, err = s.finder.Previous()
		}
		if errors.Is(err, search.ErrNoMatch) {
			continue
		}
		s.current = u
		s.match = &Match{Index: cur.index, Doc: cur.doc, Start: start, End: end}
		return *s.match, nil
	}

	s.reset()
	return Match{}, search.ErrNoMatch
}

// substitutes the current match, leaving the cursor after the replacement
func (p *Project) Replace() error {
	s := p.search
	m := s.match
	if m == nil || m.Index >= p.subs.Len() {
		return search.ErrNoMatch
	}
	if s.loaded != (unit{index: m.Index, doc: m.Doc}) || s.finder.Text() != p.subs.At(m.Index).Text(m.Doc) {
		return search.ErrNoMatch
	}
	text, err := s.finder.Replace()
	if err != nil {
		return err
	}
	s.match = nil
	p.replaceTexts([]int{m.Index}, m.Doc, []string{text}, history.Do, "Replacing text")
	return nil
}

// substitutes every match in the targeted units as one action, returning the
// count
func (p *Project) ReplaceAll() (int, error) {
	s := p.search
	if !s.finder.HasPattern() {
		return 0, ErrNoPattern
	}
	units := p.searchUnits()
	count := 0
	p.group(history.Do, "Replacing all", func() {
		for _, doc := range s.docs {
			var indices []int
			var texts []string
			for _, cur := range units {
				if cur.doc != doc {
					continue
				}
				s.finder.SetText(p.subs.At(cur.index).Text(doc))
				if n := s.finder.ReplaceAll(); n > 0 {
					count += n
					indices = append(indices, cur.index)
					texts = append(texts, s.finder.Text())
				}
			}
			if len(indices) > 0 {
				p.replaceTexts(indices, doc, texts, history.Do, "Replacing all")
			}
		}
	})
	s.reset()
	p.logger.Debugw("replaced all", "count", count)
	return count, nil
}
