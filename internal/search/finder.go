package search

import (
	"errors"
	"fmt"
	"regexp"
)

// returned when the text holds no (more) matches
var ErrNoMatch = errors.New("no match")

// search and replace cursor over a single text
//
// Literal patterns are compiled to quoted expressions so both kinds share one
// matcher; only replacement differs, literal replacements never expand $1.
type Finder struct {
	text        string
	pos         int
	matchStart  int
	matchEnd    int
	pattern     *regexp.Regexp
	literal     bool
	replacement string
}

func NewFinder() *Finder {
	return &Finder{matchStart: -1, matchEnd: -1}
}

// loads a new haystack, resetting cursor and match
func (f *Finder) SetText(text string) {
	f.text = text
	f.pos = 0
	f.clearMatch()
}

func (f *Finder) Text() string {
	return f.text
}

func (f *Finder) Position() int {
	return f.pos
}

// moves the cursor, clamped to the text
func (f *Finder) SetPosition(pos int) {
	f.pos = max(0, min(pos, len(f.text)))
	f.clearMatch()
}

func (f *Finder) clearMatch() {
	f.matchStart, f.matchEnd = -1, -1
}

// searches for the literal string
func (f *Finder) SetPattern(pattern string, ignoreCase bool) error {
	if pattern == "" {
		return fmt.Errorf("empty search pattern")
	}
	expr := regexp.QuoteMeta(pattern)
	if ignoreCase {
		expr = "(?i)" + expr
	}
	f.pattern = regexp.MustCompile(expr)
	f.literal = true
	f.clearMatch()
	return nil
}

// searches for a regular expression
func (f *Finder) SetRegex(expr string, ignoreCase bool) error {
	if expr == "" {
		return fmt.Errorf("empty search pattern")
	}
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid regular expression: %w", err)
	}
	f.pattern = re
	f.literal = false
	f.clearMatch()
	return nil
}

func (f *Finder) HasPattern() bool {
	return f.pattern != nil
}

// replacement text, $1 style groups expand for regular expressions
func (f *Finder) SetReplacement(replacement string) {
	f.replacement = replacement
}

func (f *Finder) Replacement() string {
	return f.replacement
}

// span of the current match
func (f *Finder) Match() (start, end int, ok bool) {
	if f.matchStart < 0 {
		return 0, 0, false
	}
	return f.matchStart, f.matchEnd, true
}

func (f *Finder) matches() [][]int {
	if f.pattern == nil {
		panic("search: no pattern set")
	}
	return f.pattern.FindAllStringSubmatchIndex(f.text, -1)
}

func (f *Finder) isCurrent(m []int) bool {
	return m[0] == f.matchStart && m[1] == f.matchEnd
}

// finds the first match starting at or after the cursor
func (f *Finder) Next() (start, end int, err error) {
	for _, m := range f.matches() {
		if m[0] < f.pos || f.isCurrent(m) {
			continue
		}
		f.matchStart, f.matchEnd = m[0], m[1]
		f.pos = m[1]
		return m[0], m[1], nil
	}
	f.clearMatch()
	return 0, 0, ErrNoMatch
}

// finds the last match ending at or before the cursor
func (f *Finder) Previous() (start, end int, err error) {
	all := f.matches()
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m[1] > f.pos || f.isCurrent(m) {
			continue
		}
		f.matchStart, f.matchEnd = m[0], m[1]
		f.pos = m[0]
		return m[0], m[1], nil
	}
	f.clearMatch()
	return 0, 0, ErrNoMatch
}

// substitutes the current match and moves the cursor past the replacement
func (f *Finder) Replace() (string, error) {
	if f.matchStart < 0 {
		return f.text, ErrNoMatch
	}
	replacement := f.replacement
	if !f.literal {
		replacement = f.expand()
	}
	start := f.matchStart
	f.text = f.text[:start] + replacement + f.text[f.matchEnd:]
	f.pos = start + len(replacement)
	f.clearMatch()
	return f.text, nil
}

func (f *Finder) expand() string {
	for _, m := range f.matches() {
		if f.isCurrent(m) {
			return string(f.pattern.ExpandString(nil, f.replacement, f.text, m))
		}
	}
	return f.replacement
}

// substitutes every match, returning the count
func (f *Finder) ReplaceAll() int {
	count := len(f.matches())
	if count == 0 {
		return 0
	}
	if f.literal {
		f.text = f.pattern.ReplaceAllLiteralString(f.text, f.replacement)
	} else {
		f.text = f.pattern.ReplaceAllString(f.text, f.replacement)
	}
	f.pos = 0
	f.clearMatch()
	return count
}
