package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/otsaloma/gaupol-sub002/internal/charset"
	"github.com/otsaloma/gaupol-sub002/internal/config"
	"github.com/otsaloma/gaupol-sub002/internal/format"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

const unorderedSRT = `1
00:00:05,000 --> 00:00:06,000
Second

2
00:00:01,000 --> 00:00:02,000
<i>First</i>
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestOpenMainReportsReordered(t *testing.T) {
	path := writeFile(t, "movie.srt", []byte(unorderedSRT))
	p := New(testConfig(), nil)
	opened := 0
	p.Connect(MainFileOpened, func(Event) { opened++ })

	reordered, err := p.OpenMain(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reordered != 1 {
		t.Errorf("expected 1 reordered, got %d", reordered)
	}
	want := []entry{
		{Start: time.Second, End: 2 * time.Second, Primary: "<i>First</i>"},
		{Start: 5 * time.Second, End: 6 * time.Second, Primary: "Second"},
	}
	if diff := cmp.Diff(want, snapshot(p)); diff != "" {
		t.Errorf("opened state mismatch (-want +got):\n%s", diff)
	}
	if p.Main().Format != format.SubRip || p.Main().Encoding != "utf-8" {
		t.Errorf("expected SubRip in utf-8, got %+v", p.Main())
	}
	if opened != 1 {
		t.Errorf("expected one open event, got %d", opened)
	}
	if p.CanUndo() || p.IsChanged(subtitle.Primary) {
		t.Error("expected fresh history after open")
	}
}

func TestOpenMainFallsBackToAutoDetect(t *testing.T) {
	path := writeFile(t, "accent.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nCafé\n"))
	cfg := testConfig()
	cfg.Encoding = "ascii"
	cfg.FallbackEncodings = nil
	cfg.AutoDetectEncoding = true
	p := New(cfg, nil)

	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Main().Encoding != "utf-8" {
		t.Errorf("expected detected utf-8, got %q", p.Main().Encoding)
	}
	if got := p.Subtitle(0).Text(subtitle.Primary); got != "Café" {
		t.Errorf("expected Café, got %q", got)
	}
}

func TestOpenMainDecodeFailureNamesEncodings(t *testing.T) {
	path := writeFile(t, "accent.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nCafé\n"))
	cfg := testConfig()
	cfg.Encoding = "ascii"
	cfg.FallbackEncodings = nil
	cfg.AutoDetectEncoding = false
	p := New(cfg, nil)

	_, err := p.OpenMain(path, "")
	var decodeErr *charset.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if diff := cmp.Diff([]string{"ascii"}, decodeErr.Tried); diff != "" {
		t.Errorf("tried mismatch (-want +got):\n%s", diff)
	}
	if p.Len() != 0 {
		t.Errorf("expected no subtitles after failed open, got %d", p.Len())
	}
}

func TestOpenMainParseError(t *testing.T) {
	path := writeFile(t, "broken.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n\n2\n00:75:00,000 --> 00:00:04,000\nThere\n"))
	p := New(testConfig(), nil)

	_, err := p.OpenMain(path, "")
	var parseErr *format.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestOpenMainUnknownFormat(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("just some words\n"))
	p := New(testConfig(), nil)

	_, err := p.OpenMain(path, "")
	if !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenMicroDVDSetsFrameMode(t *testing.T) {
	path := writeFile(t, "movie.sub", []byte("{1}{1}25\n{50}{75}Hello|world\n"))
	p := New(config2398(), nil)

	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Mode() != position.ModeFrame || p.Framerate() != position.FPS25 {
		t.Errorf("expected frame mode at 25 fps, got %v at %v", p.Mode(), p.Framerate())
	}
	if p.Subtitle(0).StartTime() != 2*time.Second {
		t.Errorf("expected 2s, got %v", p.Subtitle(0).StartTime())
	}
	if got := p.Subtitle(0).Text(subtitle.Primary); got != "Hello\nworld" {
		t.Errorf("expected two lines, got %q", got)
	}
}

func config2398() *config.Config {
	cfg := testConfig()
	cfg.Framerate = position.FPS23976
	return cfg
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeFile(t, "movie.srt", []byte(unorderedSRT))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetText(1, subtitle.Primary, "Changed")
	saved := 0
	p.Connect(MainFileSaved, func(Event) { saved++ })

	if err := p.SaveMain(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsChanged(subtitle.Primary) {
		t.Error("expected saved document unchanged")
	}
	if saved != 1 {
		t.Errorf("expected one save event, got %d", saved)
	}

	q := New(testConfig(), nil)
	reordered, err := q.OpenMain(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reordered != 0 {
		t.Errorf("expected saved file in order, got %d reordered", reordered)
	}
	if diff := cmp.Diff(snapshot(p), snapshot(q)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveConvertsMarkupAndNewlines(t *testing.T) {
	path := writeFile(t, "movie.srt", []byte(unorderedSRT))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "movie.ass")
	err := p.SaveMain(&File{Path: out, Format: format.ASS, Encoding: "utf-8", Newline: "\r\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `{\i1}First{\i0}`) {
		t.Errorf("expected SSA italics in output:\n%s", content)
	}
	if strings.Contains(strings.ReplaceAll(content, "\r\n", ""), "\n") {
		t.Error("expected only windows line endings")
	}
	if p.Main().Path != out || p.Main().Format != format.ASS {
		t.Errorf("expected main file to follow the save, got %+v", p.Main())
	}
}

func TestSaveAgainAfterFormatChange(t *testing.T) {
	path := writeFile(t, "movie.srt", []byte(unorderedSRT))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "movie.ass")
	if err := p.SaveMain(&File{Path: out, Format: format.ASS}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetText(1, subtitle.Primary, "<b>Second</b>")
	if err := p.SaveMain(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	content := string(data)
	for _, want := range []string{`{\i1}First{\i0}`, `{\b1}Second{\b0}`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %s in output:\n%s", want, content)
		}
	}
	if strings.Contains(content, "<i>") || strings.Contains(content, "<b>") {
		t.Errorf("expected no SubRip tags in output:\n%s", content)
	}

	back := filepath.Join(t.TempDir(), "movie.srt")
	if err := p.SaveMain(&File{Path: back, Format: format.SubRip}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = os.ReadFile(back)
	if !strings.Contains(string(data), "<i>First</i>") {
		t.Errorf("expected SubRip italics after saving back:\n%s", data)
	}
}

func TestSaveEncodingFailureKeepsOriginal(t *testing.T) {
	path := writeFile(t, "accent.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nCafé\n"))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(path, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original, _ := os.ReadFile(path)

	p.SetText(0, subtitle.Primary, "日本語")
	if err := p.SaveMain(&File{Path: path, Format: format.SubRip, Encoding: "windows-1252"}); err == nil {
		t.Fatal("expected encoding error")
	}
	data, _ := os.ReadFile(path)
	if string(data) != string(original) {
		t.Errorf("expected original file untouched, got %q", data)
	}
	if !p.IsChanged(subtitle.Primary) {
		t.Error("expected document still changed after failed save")
	}
}

func TestSaveWithoutFile(t *testing.T) {
	p := New(testConfig(), nil)
	if err := p.SaveTranslation(nil); err == nil {
		t.Error("expected error without a translation file")
	}
}

func TestOpenTranslationByNumber(t *testing.T) {
	main := writeFile(t, "movie.srt", []byte(unorderedSRT))
	tr := writeFile(t, "movie.fi.srt", []byte(
		"1\n00:00:01,000 --> 00:00:02,000\nEnsimmäinen\n\n"+
			"2\n00:00:05,000 --> 00:00:06,000\nToinen\n\n"+
			"3\n00:00:09,000 --> 00:00:10,000\nKolmas\n"))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(main, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.OpenTranslation(tr, "", AlignNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []entry{
		{Start: time.Second, End: 2 * time.Second, Primary: "<i>First</i>", Secondary: "Ensimmäinen"},
		{Start: 5 * time.Second, End: 6 * time.Second, Primary: "Second", Secondary: "Toinen"},
		{Start: 9 * time.Second, End: 10 * time.Second, Secondary: "Kolmas"},
	}
	if diff := cmp.Diff(want, snapshot(p)); diff != "" {
		t.Errorf("aligned state mismatch (-want +got):\n%s", diff)
	}
	if p.CanUndo() {
		t.Error("expected alignment not to be undoable")
	}
	if p.Translation() == nil || p.Translation().Path != tr {
		t.Errorf("expected translation file set, got %+v", p.Translation())
	}
}

func TestOpenTranslationByPosition(t *testing.T) {
	main := writeFile(t, "movie.srt", []byte(unorderedSRT))
	tr := writeFile(t, "movie.fi.srt", []byte(
		"1\n00:00:03,000 --> 00:00:04,000\nVälissä\n\n"+
			"2\n00:00:05,010 --> 00:00:06,000\nToinen\n"))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(main, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.OpenTranslation(tr, "", AlignPosition); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []entry{
		{Start: time.Second, End: 2 * time.Second, Primary: "<i>First</i>"},
		{Start: 3 * time.Second, End: 4 * time.Second, Secondary: "Välissä"},
		{Start: 5 * time.Second, End: 6 * time.Second, Primary: "Second", Secondary: "Toinen"},
	}
	if diff := cmp.Diff(want, snapshot(p)); diff != "" {
		t.Errorf("aligned state mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenTranslationByPositionMatchesEachSubtitleOnce(t *testing.T) {
	main := writeFile(t, "movie.srt", []byte(unorderedSRT))
	tr := writeFile(t, "movie.fi.srt", []byte(
		"1\n00:00:05,000 --> 00:00:06,000\nToinen\n\n"+
			"2\n00:00:03,000 --> 00:00:04,000\nVälissä\n\n"+
			"3\n00:00:05,000 --> 00:00:06,000\nKolmas\n"))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(main, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.OpenTranslation(tr, "", AlignPosition); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []entry{
		{Start: time.Second, End: 2 * time.Second, Primary: "<i>First</i>"},
		{Start: 3 * time.Second, End: 4 * time.Second, Secondary: "Välissä"},
		{Start: 5 * time.Second, End: 6 * time.Second, Primary: "Second", Secondary: "Toinen"},
		{Start: 5 * time.Second, End: 6 * time.Second, Secondary: "Kolmas"},
	}
	if diff := cmp.Diff(want, snapshot(p)); diff != "" {
		t.Errorf("aligned state mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveTranslationWritesSecondary(t *testing.T) {
	main := writeFile(t, "movie.srt", []byte(unorderedSRT))
	p := New(testConfig(), nil)
	if _, err := p.OpenMain(main, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.SetText(0, subtitle.Secondary, "Eka")
	p.SetText(1, subtitle.Secondary, "Toka")

	out := filepath.Join(t.TempDir(), "movie.fi.vtt")
	if err := p.SaveTranslation(&File{Path: out, Format: format.WebVTT}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsChanged(subtitle.Secondary) || !p.IsChanged(subtitle.Primary) {
		t.Error("expected only the secondary counter reset")
	}

	q := New(testConfig(), nil)
	if _, err := q.OpenMain(out, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtitle(0).Text(subtitle.Primary) != "Eka" || q.Subtitle(1).Text(subtitle.Primary) != "Toka" {
		t.Errorf("expected translated texts, got %v", snapshot(q))
	}
}
