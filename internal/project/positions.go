package project

import (
	"fmt"
	"math"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/history"
	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

// subtitle whose start should land on Target
type SyncPoint struct {
	Index  int
	Target position.Position
}

// moves starts and ends by amount, clamping at zero
func (p *Project) ShiftPositions(indices []int, amount position.Position) {
	indices = p.resolve(indices)
	subs, starts, ends := p.positionSlots(indices)
	for i, sub := range subs {
		calc := sub.Calculator()
		starts[i] = calc.ClampZero(calc.Add(sub.Start(), amount))
		ends[i] = calc.ClampZero(calc.Add(sub.End(), amount))
	}
	p.setPositions(subs, starts, ends, nil, history.Do, "Shifting positions")
}

// retimes linearly so that both sync points land on their targets
func (p *Project) TransformPositions(indices []int, first, second SyncPoint) {
	p.checkIndex(first.Index)
	p.checkIndex(second.Index)
	x1 := p.native(p.subs.At(first.Index).Start())
	x2 := p.native(p.subs.At(second.Index).Start())
	if x1 == x2 {
		panic(fmt.Sprintf("project: sync points %d and %d share a start", first.Index, second.Index))
	}
	y1 := p.native(first.Target)
	y2 := p.native(second.Target)
	coefficient := (y2 - y1) / (x2 - x1)
	constant := y1 - coefficient*x1

	indices = p.resolve(indices)
	subs, starts, ends := p.positionSlots(indices)
	for i, sub := range subs {
		starts[i] = p.fromNative(coefficient*p.native(sub.Start()) + constant)
		ends[i] = p.fromNative(coefficient*p.native(sub.End()) + constant)
	}
	p.setPositions(subs, starts, ends, nil, history.Do, "Transforming positions")
}

// corrects positions that were computed with the wrong framerate
//
// Frame-native subtitles keep their frames and only the framerate changes.
// Time-native subtitles are rescaled by from/to first.
func (p *Project) ConvertFramerate(indices []int, from, to position.Framerate) {
	if from <= 0 || to <= 0 {
		panic(fmt.Sprintf("project: invalid framerates %v and %v", from, to))
	}
	p.group(history.Do, "Converting framerate", func() {
		if p.mode == position.ModeTime {
			scale := float64(from) / float64(to)
			indices := p.resolve(indices)
			subs, starts, ends := p.positionSlots(indices)
			for i, sub := range subs {
				starts[i] = position.FromTime(scaleTime(sub.Start(), scale))
				ends[i] = position.FromTime(scaleTime(sub.End(), scale))
			}
			p.setPositions(subs, starts, ends, nil, history.Do, "Converting framerate")
		}
		p.changeFramerate(to, history.Do, "Converting framerate")
	})
}

// sets the framerate, re-deriving the non-native axis of every subtitle
func (p *Project) ChangeFramerate(framerate position.Framerate) {
	if framerate <= 0 {
		panic(fmt.Sprintf("project: invalid framerate %v", framerate))
	}
	p.changeFramerate(framerate, history.Do, "Changing framerate")
}

func (p *Project) changeFramerate(framerate position.Framerate, reg history.Register, description string) {
	old := p.framerate
	p.framerate = framerate
	p.calc = position.NewCalculator(framerate)
	for _, sub := range p.subs.Subtitles() {
		sub.SetFramerate(framerate)
	}
	p.logger.Debugw("changed framerate", "from", old.String(), "to", framerate.String())

	p.emit(Event{Kind: FramerateChanged})
	p.emit(Event{Kind: PositionsChanged, Indices: p.resolve(nil)})
	p.record(reg, bothDocs, description, func(r history.Register) {
		p.changeFramerate(old, r, description)
	})
}

// appends copies of other's subtitles after this project's last end
func (p *Project) AppendProject(other *Project) []int {
	if other == p {
		panic("project: cannot append a project to itself")
	}
	var offset float64
	if n := p.subs.Len(); n > 0 {
		offset = p.subs.At(n - 1).EndSeconds()
	}
	subs := make([]*subtitle.Subtitle, 0, other.Len())
	indices := make([]int, 0, other.Len())
	for i, src := range other.subs.Subtitles() {
		sub := p.NewSubtitle()
		sub.SetStart(p.calc.FromSeconds(src.StartSeconds()+offset, p.mode))
		sub.SetEnd(p.calc.FromSeconds(src.EndSeconds()+offset, p.mode))
		for _, doc := range subtitle.Documents {
			sub.SetText(doc, markup.Convert(src.Text(doc), other.dialect(doc), p.dialect(doc)))
		}
		for key, value := range src.Extras() {
			sub.SetExtra(key, value)
		}
		subs = append(subs, sub)
		indices = append(indices, p.subs.Len()+i)
	}
	if len(subs) == 0 {
		return nil
	}
	p.insertSubtitles(indices, subs, history.Do, "Appending project")
	return indices
}

func (p *Project) positionSlots(indices []int) ([]*subtitle.Subtitle, []position.Position, []position.Position) {
	subs := make([]*subtitle.Subtitle, len(indices))
	for i, index := range indices {
		subs[i] = p.subs.At(index)
	}
	return subs, make([]position.Position, len(indices)), make([]position.Position, len(indices))
}

// position in seconds or frames depending on the project's mode
func (p *Project) native(pos position.Position) float64 {
	if p.mode == position.ModeFrame {
		return float64(p.calc.ToFrame(pos))
	}
	return p.calc.ToSeconds(pos)
}

func (p *Project) fromNative(value float64) position.Position {
	value = math.Max(0, value)
	if p.mode == position.ModeFrame {
		return position.FromFrame(int(math.Round(value)))
	}
	return p.calc.FromSeconds(value, position.ModeTime)
}

func scaleTime(pos position.Position, scale float64) time.Duration {
	return time.Duration(math.Round(float64(pos.Time())*scale/float64(time.Millisecond))) * time.Millisecond
}
