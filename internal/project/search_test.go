package project

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/otsaloma/gaupol-sub002/internal/search"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

func primaryOnly(p *Project, wrap bool) {
	p.SetSearchTarget(nil, []subtitle.Document{subtitle.Primary}, wrap)
}

func TestFindNextWrapsAcrossUnits(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "a foo", "foo b")
	primaryOnly(p, true)
	if err := p.SetSearchPattern("foo", SearchOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []Match
	for i := 0; i < 3; i++ {
		m, err := p.FindNext()
		if err != nil {
			t.Fatalf("find %d: unexpected error: %v", i, err)
		}
		got = append(got, m)
	}

	want := []Match{
		{Index: 0, Doc: subtitle.Primary, Start: 2, End: 5},
		{Index: 1, Doc: subtitle.Primary, Start: 0, End: 3},
		{Index: 0, Doc: subtitle.Primary, Start: 2, End: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestFindNextWithoutWrapStops(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "a foo", "foo b")
	primaryOnly(p, false)
	_ = p.SetSearchPattern("foo", SearchOptions{})

	for i := 0; i < 2; i++ {
		if _, err := p.FindNext(); err != nil {
			t.Fatalf("find %d: unexpected error: %v", i, err)
		}
	}
	if _, err := p.FindNext(); !errors.Is(err, search.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestFindNextSingleMatchFoundAgain(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}}, "only foo here")
	primaryOnly(p, true)
	_ = p.SetSearchPattern("foo", SearchOptions{})

	for i := 0; i < 3; i++ {
		m, err := p.FindNext()
		if err != nil {
			t.Fatalf("find %d: unexpected error: %v", i, err)
		}
		if m.Start != 5 {
			t.Errorf("find %d: expected start 5, got %d", i, m.Start)
		}
	}
}

func TestFindNothingTerminates(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "a", "b")
	_ = p.SetSearchPattern("zzz", SearchOptions{})
	if _, err := p.FindNext(); !errors.Is(err, search.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
	if _, err := p.FindPrevious(); !errors.Is(err, search.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch, got %v", err)
	}
}

func TestFindWithoutPattern(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}}, "a")
	if _, err := p.FindNext(); !errors.Is(err, ErrNoPattern) {
		t.Errorf("expected ErrNoPattern, got %v", err)
	}
}

func TestFindPreviousWalksBackwards(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "foo foo", "foo")
	primaryOnly(p, true)
	_ = p.SetSearchPattern("foo", SearchOptions{})

	var got []Match
	for i := 0; i < 4; i++ {
		m, err := p.FindPrevious()
		if err != nil {
			t.Fatalf("find %d: unexpected error: %v", i, err)
		}
		got = append(got, m)
	}

	want := []Match{
		{Index: 1, Doc: subtitle.Primary, Start: 0, End: 3},
		{Index: 0, Doc: subtitle.Primary, Start: 4, End: 7},
		{Index: 0, Doc: subtitle.Primary, Start: 0, End: 3},
		{Index: 1, Doc: subtitle.Primary, Start: 0, End: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCrossesDocuments(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "cat", "dog")
	p.SetText(1, subtitle.Secondary, "cat")
	p.SetSearchTarget(nil, nil, true)
	_ = p.SetSearchPattern("cat", SearchOptions{})

	first, _ := p.FindNext()
	second, _ := p.FindNext()
	if first.Index != 0 || first.Doc != subtitle.Primary {
		t.Errorf("expected primary 0 first, got %+v", first)
	}
	if second.Index != 1 || second.Doc != subtitle.Secondary {
		t.Errorf("expected secondary 1 second, got %+v", second)
	}
}

func TestFindIgnoreCaseAndSubset(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}, {2, 3}}, "Foo", "foo", "FOO")
	p.SetSearchTarget([]int{2}, []subtitle.Document{subtitle.Primary}, true)
	_ = p.SetSearchPattern("foo", SearchOptions{IgnoreCase: true})

	m, err := p.FindNext()
	if err != nil || m.Index != 2 {
		t.Errorf("expected match in subtitle 2, got %+v, %v", m, err)
	}
}

func TestReplaceCurrentMatch(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "a foo foo", "foo")
	primaryOnly(p, true)
	_ = p.SetSearchPattern("foo", SearchOptions{})
	p.SetReplacement("barbaz")

	if err := p.Replace(); !errors.Is(err, search.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch before any find, got %v", err)
	}

	if _, err := p.FindNext(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Replace(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Subtitle(0).Text(subtitle.Primary); got != "a barbaz foo" {
		t.Errorf("expected %q, got %q", "a barbaz foo", got)
	}

	m, err := p.FindNext()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Index != 0 || m.Start != 9 {
		t.Errorf("expected next match at 0:9 past the replacement, got %+v", m)
	}

	p.Undo(1)
	if got := p.Subtitle(0).Text(subtitle.Primary); got != "a foo foo" {
		t.Errorf("expected undo to restore text, got %q", got)
	}
}

func TestReplaceAllRegex(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}, {1, 2}}, "john smith", "jane doe")
	p.SetText(0, subtitle.Secondary, "no names")
	p.History().Clear()
	if err := p.SetSearchPattern(`(\w+) (\w+)`, SearchOptions{Regex: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetReplacement("$2, $1")

	n, err := p.ReplaceAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 replacements, got %d", n)
	}
	got := []string{
		p.Subtitle(0).Text(subtitle.Primary),
		p.Subtitle(1).Text(subtitle.Primary),
		p.Subtitle(0).Text(subtitle.Secondary),
	}
	if diff := cmp.Diff([]string{"smith, john", "doe, jane", "names, no"}, got); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if p.History().UndoCount() != 1 {
		t.Errorf("expected one undo entry, got %d", p.History().UndoCount())
	}
}

func TestInvalidRegex(t *testing.T) {
	p := newTestProject(t, [][2]float64{{0, 1}}, "a")
	if err := p.SetSearchPattern("(", SearchOptions{Regex: true}); err == nil {
		t.Error("expected error for invalid regex")
	}
}
