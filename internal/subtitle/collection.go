package subtitle

import (
	"fmt"
	"sort"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

const (
	// span given to each blank subtitle appended after the last one
	DefaultBlankTime   = 3 * time.Second
	DefaultBlankFrames = 80
)

// ordered sequence of subtitles, non-decreasing by start
//
// Insert and Remove are positional and never reorder. SetStart is the only
// operation that restores order, by moving the edited element alone.
type Collection struct {
	subs []*Subtitle
}

func NewCollection(subs ...*Subtitle) *Collection {
	return &Collection{subs: append([]*Subtitle(nil), subs...)}
}

func (c *Collection) Len() int {
	return len(c.subs)
}

func (c *Collection) At(index int) *Subtitle {
	c.checkIndex(index)
	return c.subs[index]
}

// shallow copy of the backing slice
func (c *Collection) Subtitles() []*Subtitle {
	return append([]*Subtitle(nil), c.subs...)
}

// index of the given subtitle by identity, -1 if absent
func (c *Collection) Index(sub *Subtitle) int {
	for i, s := range c.subs {
		if s == sub {
			return i
		}
	}
	return -1
}

func (c *Collection) Insert(index int, sub *Subtitle) {
	if index < 0 || index > len(c.subs) {
		panic(fmt.Sprintf("subtitle: insert index %d out of range (0-%d)", index, len(c.subs)))
	}
	c.subs = append(c.subs, nil)
	copy(c.subs[index+1:], c.subs[index:])
	c.subs[index] = sub
}

func (c *Collection) Append(sub *Subtitle) {
	c.subs = append(c.subs, sub)
}

func (c *Collection) Remove(index int) *Subtitle {
	c.checkIndex(index)
	sub := c.subs[index]
	copy(c.subs[index:], c.subs[index+1:])
	c.subs[len(c.subs)-1] = nil
	c.subs = c.subs[:len(c.subs)-1]
	return sub
}

func (c *Collection) Clear() {
	c.subs = nil
}

// physically moves the element at from to index to
func (c *Collection) Move(from, to int) {
	if from == to {
		c.checkIndex(from)
		return
	}
	sub := c.Remove(from)
	c.Insert(to, sub)
}

// index at which sub belongs by start, ignoring the element at exclude
//
// Ties resolve after existing equal starts, so the ordering stays stable.
func (c *Collection) InsertionPoint(sub *Subtitle, exclude int) int {
	n := len(c.subs)
	if exclude >= 0 && exclude < n {
		n--
	}
	at := func(i int) *Subtitle {
		if exclude >= 0 && i >= exclude {
			return c.subs[i+1]
		}
		return c.subs[i]
	}
	return sort.Search(n, func(i int) bool {
		return sub.Compare(at(i)) < 0
	})
}

// sets the native start of the element at index and moves it to restore
// order, returning its new index
func (c *Collection) SetStart(index int, p position.Position) int {
	c.checkIndex(index)
	c.subs[index].SetStart(p)
	return c.Reorder(index)
}

// moves the element at index to its sorted place if it is out of order
func (c *Collection) Reorder(index int) int {
	c.checkIndex(index)
	sub := c.subs[index]
	if c.inPlace(index) {
		return index
	}
	target := c.InsertionPoint(sub, index)
	c.Move(index, target)
	return target
}

func (c *Collection) inPlace(index int) bool {
	sub := c.subs[index]
	if index > 0 && sub.Compare(c.subs[index-1]) < 0 {
		return false
	}
	if index < len(c.subs)-1 && sub.Compare(c.subs[index+1]) > 0 {
		return false
	}
	return true
}

// takes subs out and puts each back at its target index
//
// Targets are final indices; inserting in ascending target order rebuilds
// the exact layout the targets were read from.
func (c *Collection) Relocate(subs []*Subtitle, targets []int) {
	if len(subs) != len(targets) {
		panic(fmt.Sprintf("subtitle: %d subtitles for %d targets", len(subs), len(targets)))
	}
	c.detach(subs)
	order := make([]int, len(subs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return targets[order[a]] < targets[order[b]]
	})
	for _, i := range order {
		c.Insert(targets[i], subs[i])
	}
}

// takes subs out and puts each back at its sorted place, returning their new
// indices in the order given
//
// The remaining elements stay sorted, so every sub is placed individually by
// binary search in order of its start.
func (c *Collection) Resort(subs []*Subtitle) []int {
	c.detach(subs)
	order := make([]*Subtitle, len(subs))
	copy(order, subs)
	sort.SliceStable(order, func(a, b int) bool {
		return order[a].Less(order[b])
	})
	for _, sub := range order {
		c.Insert(c.InsertionPoint(sub, -1), sub)
	}
	indices := make([]int, len(subs))
	for i, sub := range subs {
		indices[i] = c.Index(sub)
	}
	return indices
}

func (c *Collection) detach(subs []*Subtitle) {
	for _, sub := range subs {
		index := c.Index(sub)
		if index < 0 {
			panic("subtitle: subtitle not in collection")
		}
		c.Remove(index)
	}
}

// whether starts are non-decreasing
func (c *Collection) Sorted() bool {
	for i := 1; i < len(c.subs); i++ {
		if c.subs[i].Compare(c.subs[i-1]) < 0 {
			return false
		}
	}
	return true
}

// count blank subtitles spanning the gap at index
//
// The window runs from the predecessor's end (or zero) to the successor's
// start and is divided evenly. Without a successor each blank gets the
// default width. The subtitles are not inserted.
func (c *Collection) BlankSubtitles(index, count int, newSub func() *Subtitle) []*Subtitle {
	if count <= 0 {
		panic(fmt.Sprintf("subtitle: blank count %d must be positive", count))
	}
	if index < 0 || index > len(c.subs) {
		panic(fmt.Sprintf("subtitle: insert index %d out of range (0-%d)", index, len(c.subs)))
	}

	proto := newSub()
	calc := proto.Calculator()
	mode := proto.Mode()

	start := proto.Start()
	if index > 0 {
		start = calc.ToMode(c.subs[index-1].End(), mode)
	}

	var width position.Position
	if index < len(c.subs) {
		end := calc.ToMode(c.subs[index].Start(), mode)
		// overlapping neighbours leave no gap
		if calc.Compare(start, end) > 0 {
			start = end
		}
		span := calc.Duration(start, end)
		if mode == position.ModeFrame {
			width = position.FromFrame(span.Frame() / count)
		} else {
			width = position.FromTime(span.Time() / time.Duration(count))
		}
	} else if mode == position.ModeFrame {
		width = position.FromFrame(DefaultBlankFrames)
	} else {
		width = position.FromTime(DefaultBlankTime)
	}

	subs := make([]*Subtitle, count)
	for i := range subs {
		sub := proto
		if i > 0 {
			sub = newSub()
		}
		sub.SetStart(start)
		sub.SetDuration(width)
		start = sub.End()
		subs[i] = sub
	}
	return subs
}

func (c *Collection) checkIndex(index int) {
	if index < 0 || index >= len(c.subs) {
		panic(fmt.Sprintf("subtitle: index %d out of range (0-%d)", index, len(c.subs)-1))
	}
}
