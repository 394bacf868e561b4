package project

import (
	"fmt"

	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// kind of change notification
type EventKind int

const (
	SubtitlesInserted EventKind = iota
	SubtitlesRemoved
	PositionsChanged
	TextsChanged
	ActionDone
	ActionUndone
	ActionRedone
	FramerateChanged
	MainFileOpened
	TranslationFileOpened
	MainFileSaved
	TranslationFileSaved
)

func (k EventKind) String() string {
	switch k {
	case SubtitlesInserted:
		return "subtitles-inserted"
	case SubtitlesRemoved:
		return "subtitles-removed"
	case PositionsChanged:
		return "positions-changed"
	case TextsChanged:
		return "texts-changed"
	case ActionDone:
		return "action-done"
	case ActionUndone:
		return "action-undone"
	case ActionRedone:
		return "action-redone"
	case FramerateChanged:
		return "framerate-changed"
	case MainFileOpened:
		return "main-file-opened"
	case TranslationFileOpened:
		return "translation-file-opened"
	case MainFileSaved:
		return "main-file-saved"
	case TranslationFileSaved:
		return "translation-file-saved"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// change notification
//
// Indices are set for subtitle level events, Doc for text and file events
// and Action for the action events.
type Event struct {
	Kind    EventKind
	Indices []int
	Doc     subtitle.Document
	Action  *history.Action
}

// identity used to collapse duplicates while frozen
func (e Event) key() string {
	return fmt.Sprintf("%d|%v|%d|%p", e.Kind, e.Indices, e.Doc, e.Action)
}

type Handler func(Event)

type handlerEntry struct {
	id      int
	handler Handler
}

type registry struct {
	nextID   int
	handlers map[EventKind][]handlerEntry
	frozen   int
	pending  []Event
	queued   map[string]bool
}

func newRegistry() *registry {
	return &registry{handlers: make(map[EventKind][]handlerEntry)}
}

// registers handler for kind, returning an id for Disconnect
func (p *Project) Connect(kind EventKind, handler Handler) int {
	r := p.events
	r.nextID++
	r.handlers[kind] = append(r.handlers[kind], handlerEntry{id: r.nextID, handler: handler})
	return r.nextID
}

func (p *Project) Disconnect(id int) {
	r := p.events
	for kind, entries := range r.handlers {
		for i, e := range entries {
			if e.id == id {
				r.handlers[kind] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// holds notifications back until the matching Thaw
func (p *Project) Freeze() {
	r := p.events
	if r.frozen == 0 {
		r.queued = make(map[string]bool)
	}
	r.frozen++
}

// releases held notifications once the outermost freeze ends, each
// distinct event once in the order first queued
func (p *Project) Thaw() {
	r := p.events
	if r.frozen == 0 {
		panic("project: Thaw without Freeze")
	}
	r.frozen--
	if r.frozen > 0 {
		return
	}
	pending := r.pending
	r.pending = nil
	r.queued = nil
	for _, e := range pending {
		p.dispatch(e)
	}
}

func (p *Project) Frozen() bool {
	return p.events.frozen > 0
}

func (p *Project) emit(e Event) {
	r := p.events
	if r.frozen > 0 {
		key := e.key()
		if r.queued[key] {
			return
		}
		r.queued[key] = true
		r.pending = append(r.pending, e)
		return
	}
	p.dispatch(e)
}

func (p *Project) dispatch(e Event) {
	entries := append([]handlerEntry(nil), p.events.handlers[e.Kind]...)
	for _, entry := range entries {
		entry.handler(e)
	}
}
