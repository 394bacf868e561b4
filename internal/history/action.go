package history

import (
	"fmt"

	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// channel an action is filed under
type Register int

const (
	// executes without being recorded
	None Register = iota
	Do
	Undo
	Redo
)

func (r Register) String() string {
	switch r {
	case None:
		return "none"
	case Do:
		return "do"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	default:
		return fmt.Sprintf("Register(%d)", int(r))
	}
}

// recorded mutation whose forward effect has already been applied
//
// Revert applies the inverse mutation under the given register, which in
// turn records the symmetric inverse action. A group action has no Revert of
// its own and reverts its members instead.
type Action struct {
	Register    Register
	Docs        []subtitle.Document
	Description string
	Revert      func(Register)

	// most recent first
	members []*Action
}

func (a *Action) IsGroup() bool {
	return len(a.members) > 0
}

// grouped atomic actions, most recent first
func (a *Action) Members() []*Action {
	return append([]*Action(nil), a.members...)
}

func (a *Action) Affects(doc subtitle.Document) bool {
	for _, d := range a.Docs {
		if d == doc {
			return true
		}
	}
	return false
}

func (a *Action) revert(reg Register) {
	if !a.IsGroup() {
		a.Revert(reg)
		return
	}
	for _, m := range a.members {
		m.Revert(reg)
	}
}

func mergeDocs(actions []*Action) []subtitle.Document {
	var docs []subtitle.Document
	for _, doc := range subtitle.Documents {
		for _, a := range actions {
			if a.Affects(doc) {
				docs = append(docs, doc)
				break
			}
		}
	}
	return docs
}
