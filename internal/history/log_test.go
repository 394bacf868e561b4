package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// list of ints mutated through revertable appends and pops
type model struct {
	log    *Log
	values []int
	heard  []string
}

func newModel(limit int) *model {
	m := &model{log: NewLog(limit)}
	m.log.SetListener(func(a *Action) {
		m.heard = append(m.heard, a.Register.String()+":"+a.Description)
	})
	return m
}

func (m *model) push(v int, reg Register) {
	m.values = append(m.values, v)
	m.log.Record(&Action{
		Register:    reg,
		Docs:        []subtitle.Document{subtitle.Primary},
		Description: "push",
		Revert:      func(r Register) { m.pop(r) },
	})
}

func (m *model) pop(reg Register) {
	v := m.values[len(m.values)-1]
	m.values = m.values[:len(m.values)-1]
	m.log.Record(&Action{
		Register:    reg,
		Docs:        []subtitle.Document{subtitle.Secondary},
		Description: "pop",
		Revert:      func(r Register) { m.push(v, r) },
	})
}

func (m *model) pushMany(reg Register, values ...int) {
	m.log.Begin(reg)
	for _, v := range values {
		m.push(v, reg)
	}
	m.log.End(reg, "push many")
}

func TestUndoRedoSymmetry(t *testing.T) {
	m := newModel(0)
	m.push(1, Do)
	m.push(2, Do)

	m.log.Undo(1)
	if diff := cmp.Diff([]int{1}, m.values); diff != "" {
		t.Errorf("after undo (-want +got):\n%s", diff)
	}
	if !m.log.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	m.log.Redo(1)
	if diff := cmp.Diff([]int{1, 2}, m.values); diff != "" {
		t.Errorf("after redo (-want +got):\n%s", diff)
	}
	m.log.Undo(2)
	if len(m.values) != 0 {
		t.Errorf("expected empty values, got %v", m.values)
	}
	if m.log.UndoCount() != 0 || m.log.RedoCount() != 2 {
		t.Errorf("expected 0/2 entries, got %d/%d", m.log.UndoCount(), m.log.RedoCount())
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	m := newModel(0)
	m.push(1, Do)
	m.log.Undo(1)
	m.push(3, Do)
	if m.log.CanRedo() {
		t.Error("expected redo stack cleared by a new action")
	}
}

func TestGroupIsOneUndoStep(t *testing.T) {
	m := newModel(0)
	m.push(1, Do)
	m.pushMany(Do, 2, 3, 4)

	if m.log.UndoCount() != 2 {
		t.Fatalf("expected 2 undo entries, got %d", m.log.UndoCount())
	}
	if got := m.log.UndoDescriptions(); got[0] != "push many" {
		t.Errorf("expected group description, got %v", got)
	}

	m.log.Undo(1)
	if diff := cmp.Diff([]int{1}, m.values); diff != "" {
		t.Errorf("after undo (-want +got):\n%s", diff)
	}
	if m.log.RedoDescriptions()[0] != "push many" {
		t.Errorf("expected redo entry to keep description, got %v", m.log.RedoDescriptions())
	}
	m.log.Redo(1)
	if diff := cmp.Diff([]int{1, 2, 3, 4}, m.values); diff != "" {
		t.Errorf("after redo (-want +got):\n%s", diff)
	}
	if m.log.UndoCount() != 2 {
		t.Errorf("expected 2 undo entries after redo, got %d", m.log.UndoCount())
	}
}

func TestListenerHearsTopLevelOnly(t *testing.T) {
	m := newModel(0)
	m.pushMany(Do, 1, 2)
	m.log.Undo(1)
	want := []string{"do:push many", "undo:push many"}
	if diff := cmp.Diff(want, m.heard); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestNestedFramesFoldIntoOuter(t *testing.T) {
	m := newModel(0)
	m.log.Begin(Do)
	m.push(1, Do)
	m.pushMany(Do, 2, 3)
	m.log.End(Do, "outer")

	if m.log.UndoCount() != 1 {
		t.Fatalf("expected one entry, got %d", m.log.UndoCount())
	}
	m.log.Undo(1)
	if len(m.values) != 0 {
		t.Errorf("expected all values undone, got %v", m.values)
	}
	if len(m.heard) != 2 {
		t.Errorf("expected 2 notifications, got %v", m.heard)
	}
}

func TestSequentialFramesStaySeparate(t *testing.T) {
	m := newModel(0)
	m.pushMany(Do, 1, 2)
	m.pushMany(Do, 3, 4)
	if m.log.UndoCount() != 2 {
		t.Errorf("expected 2 entries, got %d", m.log.UndoCount())
	}
}

func TestGroupMergesDocs(t *testing.T) {
	m := newModel(0)
	m.push(1, Do)
	m.pop(Do)
	a := m.log.Group(Do, 2, "mixed")
	if !a.Affects(subtitle.Primary) || !a.Affects(subtitle.Secondary) {
		t.Errorf("expected both documents, got %v", a.Docs)
	}
	if len(a.Members()) != 2 || a.Members()[0].Description != "pop" {
		t.Errorf("expected most recent member first, got %d members", len(a.Members()))
	}
}

func TestRegisterNoneIsNotRecorded(t *testing.T) {
	m := newModel(0)
	m.push(1, None)
	if m.log.CanUndo() || len(m.heard) != 0 {
		t.Error("expected nothing recorded for register none")
	}
	if len(m.values) != 1 {
		t.Error("expected mutation to still apply")
	}
}

func TestLimitDiscardsOldest(t *testing.T) {
	m := newModel(2)
	m.push(1, Do)
	m.push(2, Do)
	m.push(3, Do)
	if m.log.UndoCount() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.log.UndoCount())
	}
	m.log.Undo(2)
	if diff := cmp.Diff([]int{1}, m.values); diff != "" {
		t.Errorf("oldest entry should be unreachable (-want +got):\n%s", diff)
	}
}

func TestUndoPastHistoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewLog(0).Undo(1)
}
