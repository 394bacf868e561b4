package subtitle

import (
	"cmp"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

// single timed text unit
//
// Positions are stored in the subtitle's native mode only. The other
// representation is derived on demand through the framerate, so changing the
// framerate never touches native values.
type Subtitle struct {
	mode      position.Mode
	calc      *position.Calculator
	start     position.Position
	end       position.Position
	primary   string
	secondary string

	// format specific fields carried between open and save
	extra map[string]string
}

// creates an empty subtitle bound to a mode and framerate
func New(mode position.Mode, framerate position.Framerate) *Subtitle {
	s := &Subtitle{
		mode: mode,
		calc: position.NewCalculator(framerate),
	}
	s.start = s.zero()
	s.end = s.zero()
	return s
}

func (s *Subtitle) zero() position.Position {
	if s.mode == position.ModeFrame {
		return position.FromFrame(0)
	}
	return position.FromTime(0)
}

func (s *Subtitle) Mode() position.Mode {
	return s.mode
}

func (s *Subtitle) Framerate() position.Framerate {
	return s.calc.Framerate()
}

func (s *Subtitle) Calculator() *position.Calculator {
	return s.calc
}

// native start position
func (s *Subtitle) Start() position.Position {
	return s.start
}

// native end position
func (s *Subtitle) End() position.Position {
	return s.end
}

// native span from start to end, zero when end precedes start
func (s *Subtitle) Duration() position.Position {
	return s.calc.Duration(s.start, s.end)
}

func (s *Subtitle) StartTime() time.Duration    { return s.calc.ToTime(s.start) }
func (s *Subtitle) EndTime() time.Duration      { return s.calc.ToTime(s.end) }
func (s *Subtitle) DurationTime() time.Duration { return s.calc.ToTime(s.Duration()) }
func (s *Subtitle) StartFrame() int             { return s.calc.ToFrame(s.start) }
func (s *Subtitle) EndFrame() int               { return s.calc.ToFrame(s.end) }
func (s *Subtitle) DurationFrame() int          { return s.calc.ToFrame(s.Duration()) }
func (s *Subtitle) StartSeconds() float64       { return s.calc.ToSeconds(s.start) }
func (s *Subtitle) EndSeconds() float64         { return s.calc.ToSeconds(s.end) }

// sets start from a time or frame value, end stays put
func (s *Subtitle) SetStart(p position.Position) {
	s.start = s.calc.ToMode(p, s.mode)
}

// sets end from a time or frame value
func (s *Subtitle) SetEnd(p position.Position) {
	s.end = s.calc.ToMode(p, s.mode)
}

// sets end to start plus the given span
func (s *Subtitle) SetDuration(p position.Position) {
	s.end = s.calc.Add(s.start, p)
}

func (s *Subtitle) SetSpan(start, end position.Position) {
	s.SetStart(start)
	s.SetEnd(end)
}

// replaces the framerate used to derive the non-native axis
func (s *Subtitle) SetFramerate(framerate position.Framerate) {
	if framerate == s.calc.Framerate() {
		return
	}
	s.calc = position.NewCalculator(framerate)
}

// switches the native mode, converting the stored positions
func (s *Subtitle) SetMode(mode position.Mode) {
	if mode == s.mode {
		return
	}
	s.start = s.calc.ToMode(s.start, mode)
	s.end = s.calc.ToMode(s.end, mode)
	s.mode = mode
}

func (s *Subtitle) Text(doc Document) string {
	if doc == Secondary {
		return s.secondary
	}
	return s.primary
}

func (s *Subtitle) SetText(doc Document, text string) {
	if doc == Secondary {
		s.secondary = text
		return
	}
	s.primary = text
}

// format specific field, empty when unset
func (s *Subtitle) Extra(key string) string {
	return s.extra[key]
}

func (s *Subtitle) SetExtra(key, value string) {
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
}

// copy of all format specific fields
func (s *Subtitle) Extras() map[string]string {
	if len(s.extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.extra))
	for k, v := range s.extra {
		out[k] = v
	}
	return out
}

// fully independent copy
func (s *Subtitle) Copy() *Subtitle {
	c := *s
	c.extra = s.Extras()
	return &c
}

// orders by start, normalizing to seconds across modes or framerates
func (s *Subtitle) Compare(o *Subtitle) int {
	if s.mode == o.mode && s.calc.Framerate() == o.calc.Framerate() {
		return s.calc.Compare(s.start, o.start)
	}
	return cmp.Compare(s.StartSeconds(), o.StartSeconds())
}

func (s *Subtitle) Less(o *Subtitle) bool {
	return s.Compare(o) < 0
}
