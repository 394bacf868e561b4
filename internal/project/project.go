package project

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/otsaloma/gaupol-sub002/internal/clipboard"
	"github.com/otsaloma/gaupol-sub002/internal/config"
	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/logging"
	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// subtitle editing operations, each recorded as one undoable action
type EditOps interface {
	InsertSubtitles(indices []int, subs []*subtitle.Subtitle)
	InsertBlankSubtitles(index, count int) []int
	RemoveSubtitles(indices []int)
	MergeSubtitles(indices []int)
	SplitSubtitle(index int)
	SetStart(index int, p position.Position) int
	SetEnd(index int, p position.Position)
	SetDuration(index int, p position.Position)
	ShiftPositions(indices []int, amount position.Position)
	TransformPositions(indices []int, first, second SyncPoint)
	ConvertFramerate(indices []int, from, to position.Framerate)
	ChangeFramerate(framerate position.Framerate)
	SetText(index int, doc subtitle.Document, text string)
	ReplaceTexts(indices []int, doc subtitle.Document, texts []string)
	ClearTexts(indices []int, doc subtitle.Document)
	BreakLines(indices []int, doc subtitle.Document, breaker *subtitle.LineBreaker)
	Undo(n int)
	Redo(n int)
}

// search and replace over the project's texts
type SearchOps interface {
	SetSearchTarget(indices []int, docs []subtitle.Document, wrap bool)
	SetSearchPattern(pattern string, opts SearchOptions) error
	SetReplacement(replacement string)
	FindNext() (Match, error)
	FindPrevious() (Match, error)
	Replace() error
	ReplaceAll() (int, error)
}

var (
	_ EditOps   = (*Project)(nil)
	_ SearchOps = (*Project)(nil)
)

// subtitles of one main file and its translation with their edit history
type Project struct {
	ID uuid.UUID

	cfg       *config.Config
	logger    *logging.Logger
	mode      position.Mode
	framerate position.Framerate
	calc      *position.Calculator
	subs      *subtitle.Collection
	log       *history.Log
	events    *registry
	search    *searchState

	// net count of actions per document since open or save
	changed [2]int

	main        *File
	translation *File
	// markup dialect the texts of each document are written in
	dialects [2]markup.Dialect

	copied    []string
	clipboard clipboard.Clipboard
}

func New(cfg *config.Config, logger *logging.Logger) *Project {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	id := uuid.New()
	p := &Project{
		ID:        id,
		cfg:       cfg,
		logger:    logger.With("project", id.String()[:8]),
		mode:      position.ModeTime,
		framerate: cfg.Framerate,
		calc:      position.NewCalculator(cfg.Framerate),
		subs:      subtitle.NewCollection(),
		log:       history.NewLog(cfg.UndoLimit),
		events:    newRegistry(),
		search:    newSearchState(cfg),
		dialects:  [2]markup.Dialect{markup.SubRip, markup.SubRip},
	}
	p.log.SetListener(p.onAction)
	return p
}

func (p *Project) Config() *config.Config {
	return p.cfg
}

func (p *Project) Mode() position.Mode {
	return p.mode
}

func (p *Project) Framerate() position.Framerate {
	return p.framerate
}

func (p *Project) Calculator() *position.Calculator {
	return p.calc
}

func (p *Project) Len() int {
	return p.subs.Len()
}

func (p *Project) Subtitle(index int) *subtitle.Subtitle {
	return p.subs.At(index)
}

func (p *Project) Subtitles() []*subtitle.Subtitle {
	return p.subs.Subtitles()
}

// blank subtitle in the project's mode and framerate
func (p *Project) NewSubtitle() *subtitle.Subtitle {
	return subtitle.New(p.mode, p.framerate)
}

// switches the native mode of every subtitle, converting positions
//
// History keeps working across the switch since reverts convert whatever
// positions they restore into the subtitle's mode.
func (p *Project) SetMode(mode position.Mode) {
	if mode == p.mode {
		return
	}
	p.mode = mode
	for _, sub := range p.subs.Subtitles() {
		sub.SetMode(mode)
	}
	p.logger.Debugw("changed mode", "mode", mode.String())
}

// whether the document has changes since it was opened or saved
func (p *Project) IsChanged(doc subtitle.Document) bool {
	return p.changed[doc] != 0
}

func (p *Project) History() *history.Log {
	return p.log
}

func (p *Project) CanUndo() bool {
	return p.log.CanUndo()
}

func (p *Project) CanRedo() bool {
	return p.log.CanRedo()
}

// reverts the n most recent actions
func (p *Project) Undo(n int) {
	p.log.Undo(n)
	p.logger.Debugw("undone", "count", n, "redoable", p.log.RedoCount())
}

// reapplies the n most recently undone actions
func (p *Project) Redo(n int) {
	p.log.Redo(n)
	p.logger.Debugw("redone", "count", n, "undoable", p.log.UndoCount())
}

func (p *Project) onAction(a *history.Action) {
	delta := 1
	kind := ActionDone
	switch a.Register {
	case history.Undo:
		delta = -1
		kind = ActionUndone
	case history.Redo:
		kind = ActionRedone
	}
	for _, doc := range a.Docs {
		p.changed[doc] += delta
	}
	p.emit(Event{Kind: kind, Action: a})
}

func (p *Project) record(reg history.Register, docs []subtitle.Document, description string, revert func(history.Register)) {
	p.log.Record(&history.Action{
		Register:    reg,
		Docs:        docs,
		Description: description,
		Revert:      revert,
	})
}

// runs fn as one compound action; nested actions fold into it
func (p *Project) group(reg history.Register, description string, fn func()) {
	p.log.Begin(reg)
	fn()
	p.log.End(reg, description)
}

// dialect of the texts of doc, set by the file they were opened from;
// saving to another format does not change it
func (p *Project) dialect(doc subtitle.Document) markup.Dialect {
	return p.dialects[doc]
}

// all indices when indices is nil
func (p *Project) resolve(indices []int) []int {
	if indices != nil {
		for _, i := range indices {
			p.checkIndex(i)
		}
		return indices
	}
	all := make([]int, p.subs.Len())
	for i := range all {
		all[i] = i
	}
	return all
}

func (p *Project) checkIndex(index int) {
	if index < 0 || index >= p.subs.Len() {
		panic(fmt.Sprintf("project: index %d out of range (0-%d)", index, p.subs.Len()-1))
	}
}

var bothDocs = []subtitle.Document{subtitle.Primary, subtitle.Secondary}
