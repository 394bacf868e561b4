package history

import "fmt"

// undo and redo stacks of a project
//
// Compound operations bracket their nested mutations with Begin and End.
// Frames are keyed on the register, and End folds exactly the entries
// recorded since the matching Begin, so unrelated compound operations are
// never coalesced. The listener only hears about top-level entries.
type Log struct {
	undo     []*Action // most recent last
	redo     []*Action // most recent last
	limit    int
	frames   map[Register][]int
	listener func(*Action)
}

// log keeping at most limit undo entries, unbounded when limit is zero
func NewLog(limit int) *Log {
	if limit < 0 {
		panic(fmt.Sprintf("history: negative undo limit %d", limit))
	}
	return &Log{
		limit:  limit,
		frames: make(map[Register][]int),
	}
}

// called once per top-level recorded entry
func (l *Log) SetListener(fn func(*Action)) {
	l.listener = fn
}

func (l *Log) Limit() int {
	return l.limit
}

func (l *Log) SetLimit(limit int) {
	if limit < 0 {
		panic(fmt.Sprintf("history: negative undo limit %d", limit))
	}
	l.limit = limit
	l.trim()
}

func (l *Log) stack(reg Register) *[]*Action {
	switch reg {
	case Do, Redo:
		return &l.undo
	case Undo:
		return &l.redo
	default:
		panic(fmt.Sprintf("history: no stack for register %s", reg))
	}
}

func (l *Log) grouping(reg Register) bool {
	return len(l.frames[reg]) > 0
}

// pushes an applied mutation; register None is ignored
func (l *Log) Record(a *Action) {
	if a.Register == None {
		return
	}
	if a.Revert == nil && !a.IsGroup() {
		panic("history: action without revert")
	}
	s := l.stack(a.Register)
	*s = append(*s, a)
	if a.Register == Do {
		l.redo = nil
	}
	if !l.grouping(a.Register) {
		l.finish(a)
	}
}

// opens a compound frame on the register
func (l *Log) Begin(reg Register) {
	if reg == None {
		return
	}
	l.frames[reg] = append(l.frames[reg], len(*l.stack(reg)))
}

// closes the innermost frame, folding its entries into one action with the
// given description; nil when nothing was recorded
func (l *Log) End(reg Register, description string) *Action {
	if reg == None {
		return nil
	}
	frames := l.frames[reg]
	if len(frames) == 0 {
		panic(fmt.Sprintf("history: End(%s) without Begin", reg))
	}
	mark := frames[len(frames)-1]
	l.frames[reg] = frames[:len(frames)-1]

	count := len(*l.stack(reg)) - mark
	if count <= 0 {
		return nil
	}
	a := l.Group(reg, count, description)
	if !l.grouping(reg) {
		l.finish(a)
	}
	return a
}

// replaces the last count entries of the register's stack with one compound
// action whose description overrides the members'
func (l *Log) Group(reg Register, count int, description string) *Action {
	s := l.stack(reg)
	if count < 1 || count > len(*s) {
		panic(fmt.Sprintf("history: cannot group %d of %d actions", count, len(*s)))
	}
	entries := (*s)[len(*s)-count:]

	var group *Action
	if count == 1 {
		c := *entries[0]
		c.Description = description
		group = &c
	} else {
		var members []*Action
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsGroup() {
				members = append(members, entries[i].members...)
			} else {
				members = append(members, entries[i])
			}
		}
		group = &Action{
			Register:    reg,
			Docs:        mergeDocs(entries),
			Description: description,
			members:     members,
		}
	}

	*s = append((*s)[:len(*s)-count], group)
	return group
}

func (l *Log) finish(a *Action) {
	l.trim()
	if l.listener != nil {
		l.listener(a)
	}
}

func (l *Log) trim() {
	if l.limit == 0 {
		return
	}
	for _, frames := range l.frames {
		if len(frames) > 0 {
			return
		}
	}
	if extra := len(l.undo) - l.limit; extra > 0 {
		l.undo = append([]*Action(nil), l.undo[extra:]...)
	}
	if extra := len(l.redo) - l.limit; extra > 0 {
		l.redo = append([]*Action(nil), l.redo[extra:]...)
	}
}

func (l *Log) CanUndo() bool {
	return len(l.undo) > 0
}

func (l *Log) CanRedo() bool {
	return len(l.redo) > 0
}

func (l *Log) UndoCount() int {
	return len(l.undo)
}

func (l *Log) RedoCount() int {
	return len(l.redo)
}

// descriptions of undoable actions, most recent first
func (l *Log) UndoDescriptions() []string {
	return descriptions(l.undo)
}

// descriptions of redoable actions, most recent first
func (l *Log) RedoDescriptions() []string {
	return descriptions(l.redo)
}

func descriptions(stack []*Action) []string {
	out := make([]string, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i].Description)
	}
	return out
}

// reverts the n most recent actions, filing their inverses for redo
func (l *Log) Undo(n int) {
	l.revert(&l.undo, Undo, n)
}

// reapplies the n most recently undone actions
func (l *Log) Redo(n int) {
	l.revert(&l.redo, Redo, n)
}

func (l *Log) revert(stack *[]*Action, reg Register, n int) {
	if n < 1 || n > len(*stack) {
		panic(fmt.Sprintf("history: cannot %s %d of %d actions", reg, n, len(*stack)))
	}
	for i := 0; i < n; i++ {
		a := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		l.Begin(reg)
		a.revert(reg)
		l.End(reg, a.Description)
	}
}

// drops all history
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}
