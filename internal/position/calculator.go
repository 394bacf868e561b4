package position

import (
	"cmp"
	"fmt"
	"math"
	"time"
)

// converts between time, frame and seconds at a fixed framerate
type Calculator struct {
	framerate Framerate
}

func NewCalculator(framerate Framerate) *Calculator {
	if framerate <= 0 {
		panic(fmt.Sprintf("position: invalid framerate %v", float64(framerate)))
	}
	return &Calculator{framerate: framerate}
}

func (c *Calculator) Framerate() Framerate {
	return c.framerate
}

func (c *Calculator) TimeToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// rounds to the millisecond and saturates at MaxTime
func (c *Calculator) SecondsToTime(seconds float64) time.Duration {
	ms := math.Round(seconds * 1000)
	limit := float64(MaxTime.Milliseconds())
	if ms > limit {
		ms = limit
	}
	if ms < -limit {
		ms = -limit
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Calculator) TimeToFrame(d time.Duration) int {
	return c.SecondsToFrame(c.TimeToSeconds(d))
}

func (c *Calculator) FrameToTime(frame int) time.Duration {
	return c.SecondsToTime(c.FrameToSeconds(frame))
}

func (c *Calculator) FrameToSeconds(frame int) float64 {
	return float64(frame) / float64(c.framerate)
}

func (c *Calculator) SecondsToFrame(seconds float64) int {
	return int(math.Round(seconds * float64(c.framerate)))
}

func (c *Calculator) ToTime(p Position) time.Duration {
	if p.mode == ModeFrame {
		return c.FrameToTime(p.frame)
	}
	return p.time
}

func (c *Calculator) ToFrame(p Position) int {
	if p.mode == ModeFrame {
		return p.frame
	}
	return c.TimeToFrame(p.time)
}

func (c *Calculator) ToSeconds(p Position) float64 {
	if p.mode == ModeFrame {
		return c.FrameToSeconds(p.frame)
	}
	return c.TimeToSeconds(p.time)
}

// position expressed in the given mode
func (c *Calculator) ToMode(p Position, mode Mode) Position {
	if p.mode == mode {
		return p
	}
	if mode == ModeFrame {
		return FromFrame(c.ToFrame(p))
	}
	return FromTime(c.ToTime(p))
}

func (c *Calculator) FromSeconds(seconds float64, mode Mode) Position {
	if mode == ModeFrame {
		return FromFrame(c.SecondsToFrame(seconds))
	}
	return FromTime(c.SecondsToTime(seconds))
}

// span from a to b in a's mode, never negative
func (c *Calculator) Duration(a, b Position) Position {
	b = c.ToMode(b, a.mode)
	if a.mode == ModeFrame {
		return FromFrame(max(0, b.frame-a.frame))
	}
	return FromTime(max(0, b.time-a.time))
}

// a shifted by delta in a's mode; the result may be negative
func (c *Calculator) Add(a, delta Position) Position {
	delta = c.ToMode(delta, a.mode)
	if a.mode == ModeFrame {
		return FromFrame(a.frame + delta.frame)
	}
	return FromTime(a.time + delta.time)
}

// a shifted back by delta in a's mode
func (c *Calculator) Sub(a, delta Position) Position {
	delta = c.ToMode(delta, a.mode)
	if a.mode == ModeFrame {
		return FromFrame(a.frame - delta.frame)
	}
	return FromTime(a.time - delta.time)
}

// orders positions, comparing seconds when modes differ
func (c *Calculator) Compare(a, b Position) int {
	if a.mode == b.mode {
		if a.mode == ModeFrame {
			return cmp.Compare(a.frame, b.frame)
		}
		return cmp.Compare(a.time, b.time)
	}
	return cmp.Compare(c.ToSeconds(a), c.ToSeconds(b))
}

// position clamped at zero
func (c *Calculator) ClampZero(p Position) Position {
	if !p.Negative() {
		return p
	}
	if p.mode == ModeFrame {
		return FromFrame(0)
	}
	return FromTime(0)
}
