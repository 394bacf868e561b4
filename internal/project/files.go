package project

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/charset"
	"github.com/otsaloma/gaupol-sub002/internal/format"
	"github.com/otsaloma/gaupol-sub002/internal/fsutil"
	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// subtitle file backing one document
type File struct {
	Path     string
	Format   format.Format
	Encoding string
	// line terminator, "\n", "\r\n" or "\r"
	Newline string
	// format specific preamble carried over on save
	Header    string
	Framerate position.Framerate
}

func (f *File) dialect() markup.Dialect {
	codec, err := format.Get(f.Format)
	if err != nil {
		return markup.SubRip
	}
	return codec.Dialect()
}

// how translation entries are matched to existing subtitles
type Align int

const (
	AlignNumber Align = iota
	AlignPosition
)

func (p *Project) Main() *File {
	return p.main
}

func (p *Project) Translation() *File {
	return p.translation
}

type decoded struct {
	file  *File
	codec format.Codec
	track *format.Track
}

func (p *Project) readFile(path, encoding string) (*decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, used, err := charset.DecodeAny(data, p.cfg.Encodings(encoding))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	codec, err := format.Identify(path, text)
	if err != nil {
		return nil, fmt.Errorf("failed to identify %s: %w", path, err)
	}
	track, err := codec.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &decoded{
		file: &File{
			Path:      path,
			Format:    codec.Format(),
			Encoding:  used,
			Newline:   detectNewline(text),
			Header:    track.Header,
			Framerate: track.Framerate,
		},
		codec: codec,
		track: track,
	}, nil
}

// reads path as the main document, replacing all subtitles
//
// Cues out of time order are put in place; their count is returned so
// callers can warn about it.
func (p *Project) OpenMain(path, encoding string) (int, error) {
	d, err := p.readFile(path, encoding)
	if err != nil {
		return 0, err
	}

	p.mode = d.codec.Mode()
	if d.track.Framerate > 0 {
		p.framerate = d.track.Framerate
		p.calc = position.NewCalculator(p.framerate)
	}
	p.subs.Clear()
	reordered := 0
	for _, cue := range d.track.Cues {
		sub := p.newCueSubtitle(cue)
		sub.SetText(subtitle.Primary, cue.Text)
		at := p.subs.InsertionPoint(sub, -1)
		if at != p.subs.Len() {
			reordered++
		}
		p.subs.Insert(at, sub)
	}

	p.main = d.file
	p.translation = nil
	p.dialects = [2]markup.Dialect{d.file.dialect(), d.file.dialect()}
	p.log.Clear()
	p.changed = [2]int{}
	p.search.reset()
	p.emit(Event{Kind: MainFileOpened, Doc: subtitle.Primary})
	p.logger.Infow("opened main file",
		"path", path,
		"format", string(d.file.Format),
		"encoding", d.file.Encoding,
		"subtitles", p.subs.Len(),
		"reordered", reordered)
	return reordered, nil
}

// reads path as the translation of the main document
//
// Aligning by number pairs the nth cue with the nth subtitle and appends
// subtitles for the surplus. Aligning by position pairs cues with subtitles
// starting within half a frame and inserts the rest. The edits are not
// undoable and the history is cleared.
func (p *Project) OpenTranslation(path, encoding string, align Align) error {
	d, err := p.readFile(path, encoding)
	if err != nil {
		return err
	}

	p.translation = d.file
	p.dialects[subtitle.Secondary] = d.file.dialect()
	switch align {
	case AlignNumber:
		p.alignByNumber(d.track.Cues)
	case AlignPosition:
		p.alignByPosition(d.track.Cues)
	default:
		panic(fmt.Sprintf("project: unknown alignment %d", align))
	}

	p.log.Clear()
	p.changed[subtitle.Secondary] = 0
	p.search.reset()
	p.emit(Event{Kind: TranslationFileOpened, Doc: subtitle.Secondary})
	p.logger.Infow("opened translation file",
		"path", path,
		"format", string(d.file.Format),
		"encoding", d.file.Encoding,
		"cues", len(d.track.Cues))
	return nil
}

func (p *Project) alignByNumber(cues []format.Cue) {
	n := min(len(cues), p.subs.Len())
	indices := p.resolve(nil)
	texts := make([]string, len(indices))
	for i := 0; i < n; i++ {
		texts[i] = cues[i].Text
	}
	if len(indices) > 0 {
		p.replaceTexts(indices, subtitle.Secondary, texts, history.None, "Opening translation")
	}
	for _, cue := range cues[n:] {
		p.insertCue(cue)
	}
}

func (p *Project) alignByPosition(cues []format.Cue) {
	tolerance := 0.5 / float64(p.framerate)
	matched := map[*subtitle.Subtitle]bool{}
	var indices []int
	var texts []string
	for _, cue := range cues {
		seconds := p.calc.ToSeconds(cue.Start)
		i := sort.Search(p.subs.Len(), func(i int) bool {
			return p.subs.At(i).StartSeconds() >= seconds-tolerance
		})
		// each subtitle takes at most one cue
		for i < p.subs.Len() && matched[p.subs.At(i)] {
			i++
		}
		if i < p.subs.Len() && math.Abs(p.subs.At(i).StartSeconds()-seconds) <= tolerance {
			matched[p.subs.At(i)] = true
			indices = append(indices, i)
			texts = append(texts, cue.Text)
			continue
		}
		if len(indices) > 0 {
			p.replaceTexts(indices, subtitle.Secondary, texts, history.None, "Opening translation")
			indices, texts = nil, nil
		}
		matched[p.insertCue(cue)] = true
	}
	if len(indices) > 0 {
		p.replaceTexts(indices, subtitle.Secondary, texts, history.None, "Opening translation")
	}
}

// inserts a translation-only subtitle at its sorted place
func (p *Project) insertCue(cue format.Cue) *subtitle.Subtitle {
	sub := p.newCueSubtitle(cue)
	sub.SetText(subtitle.Secondary, cue.Text)
	at := p.subs.InsertionPoint(sub, -1)
	p.insertSubtitles([]int{at}, []*subtitle.Subtitle{sub}, history.None, "Opening translation")
	return sub
}

func (p *Project) newCueSubtitle(cue format.Cue) *subtitle.Subtitle {
	sub := p.NewSubtitle()
	sub.SetStart(cue.Start)
	sub.SetEnd(cue.End)
	for key, value := range cue.Extra {
		sub.SetExtra(key, value)
	}
	return sub
}

// writes the primary texts to file, or to the current main file when nil
func (p *Project) SaveMain(file *File) error {
	return p.save(subtitle.Primary, file)
}

// writes the secondary texts to file, or to the current translation file
// when nil
func (p *Project) SaveTranslation(file *File) error {
	return p.save(subtitle.Secondary, file)
}

func (p *Project) save(doc subtitle.Document, file *File) error {
	current := p.main
	kind := MainFileSaved
	if doc == subtitle.Secondary {
		current = p.translation
		kind = TranslationFileSaved
	}
	if file == nil {
		file = current
	}
	if file == nil {
		return fmt.Errorf("no %s file to save to", doc)
	}
	codec, err := format.Get(file.Format)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", file.Path, err)
	}

	saved := *file
	if saved.Encoding == "" {
		saved.Encoding = p.cfg.Encoding
	}
	if saved.Newline == "" {
		if saved.Newline, err = p.cfg.NewlineSequence(); err != nil {
			return err
		}
	}
	if saved.Header == "" && current != nil && current.Format == saved.Format {
		saved.Header = current.Header
	}

	track := &format.Track{Format: saved.Format, Header: saved.Header}
	if saved.Format == format.MicroDVD {
		track.Framerate = p.framerate
		saved.Framerate = p.framerate
	}
	from, to := p.dialect(doc), codec.Dialect()
	for _, sub := range p.subs.Subtitles() {
		text := sub.Text(doc)
		if from != to {
			text = markup.Convert(text, from, to)
		}
		track.Cues = append(track.Cues, format.Cue{
			Start: p.calc.ToMode(sub.Start(), codec.Mode()),
			End:   p.calc.ToMode(sub.End(), codec.Mode()),
			Text:  text,
			Extra: sub.Extras(),
		})
	}

	content, err := codec.Encode(track)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", saved.Path, err)
	}
	if saved.Newline != "\n" {
		content = strings.ReplaceAll(content, "\n", saved.Newline)
	}
	data, err := charset.Encode(content, saved.Encoding)
	if err != nil {
		return fmt.Errorf("failed to encode %s as %s: %w", saved.Path, saved.Encoding, err)
	}
	if err := fsutil.WriteFile(saved.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", saved.Path, err)
	}

	if doc == subtitle.Secondary {
		p.translation = &saved
	} else {
		p.main = &saved
	}
	p.changed[doc] = 0
	p.emit(Event{Kind: kind, Doc: doc})
	p.logger.Infow("saved file",
		"path", saved.Path,
		"format", string(saved.Format),
		"encoding", saved.Encoding,
		"document", doc.String())
	return nil
}

func detectNewline(text string) string {
	switch {
	case strings.Contains(text, "\r\n"):
		return "\r\n"
	case strings.Contains(text, "\r"):
		return "\r"
	default:
		return "\n"
	}
}
