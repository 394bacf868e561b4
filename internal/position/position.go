package position

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// largest representable time, 99:59:59.999
const MaxTime = 99*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond

// source of truth for positions, the other axis is always derived
type Mode int

const (
	ModeTime Mode = iota
	ModeFrame
)

func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeFrame:
		return "frame"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time":
		return ModeTime, nil
	case "frame", "frames":
		return ModeFrame, nil
	default:
		return ModeTime, fmt.Errorf("unknown position mode %q", s)
	}
}

// tagged position value, either a time or a frame count
type Position struct {
	mode  Mode
	time  time.Duration
	frame int
}

// time position rounded to milliseconds and saturated at MaxTime
func FromTime(d time.Duration) Position {
	return Position{mode: ModeTime, time: clampTime(d.Round(time.Millisecond))}
}

func FromFrame(f int) Position {
	return Position{mode: ModeFrame, frame: f}
}

func (p Position) Mode() Mode {
	return p.mode
}

func (p Position) IsTime() bool {
	return p.mode == ModeTime
}

func (p Position) IsFrame() bool {
	return p.mode == ModeFrame
}

// native time value, zero for frame positions
func (p Position) Time() time.Duration {
	return p.time
}

// native frame value, zero for time positions
func (p Position) Frame() int {
	return p.frame
}

// whether the position lies before zero
func (p Position) Negative() bool {
	if p.mode == ModeFrame {
		return p.frame < 0
	}
	return p.time < 0
}

func (p Position) Equal(o Position) bool {
	return p == o
}

func (p Position) String() string {
	if p.mode == ModeFrame {
		return strconv.Itoa(p.frame)
	}
	return FormatTime(p.time)
}

var timeRegex = regexp.MustCompile(`^(-?)(\d+):(\d{1,2}):(\d{1,2})[.,](\d{1,3})$`)

// parses [-]HH:MM:SS.mmm, saturating at MaxTime
func ParseTime(s string) (time.Duration, error) {
	matches := timeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid time %q: expected [-]HH:MM:SS.mmm", s)
	}

	hours, _ := strconv.ParseInt(matches[2], 10, 64)
	minutes, _ := strconv.Atoi(matches[3])
	seconds, _ := strconv.Atoi(matches[4])
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", s)
	}
	// fraction digits are right-padded, ".5" means 500 ms
	millis, _ := strconv.Atoi((matches[5] + "00")[:3])

	if hours > 99 {
		hours = 100
	}
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	if matches[1] == "-" {
		d = -d
	}
	return clampTime(d), nil
}

// formats as [-]HH:MM:SS.mmm
func FormatTime(d time.Duration) string {
	d = clampTime(d.Round(time.Millisecond))
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d",
		sign,
		ms/3600000,
		(ms/60000)%60,
		(ms/1000)%60,
		ms%1000,
	)
}

func clampTime(d time.Duration) time.Duration {
	if d > MaxTime {
		return MaxTime
	}
	if d < -MaxTime {
		return -MaxTime
	}
	return d
}

// frames per second
type Framerate float64

const (
	FPS23976 Framerate = 24000.0 / 1001.0
	FPS24    Framerate = 24
	FPS25    Framerate = 25
	FPS29970 Framerate = 30000.0 / 1001.0
	FPS30    Framerate = 30
	FPS50    Framerate = 50
	FPS59940 Framerate = 60000.0 / 1001.0
	FPS60    Framerate = 60
)

// common video framerates
var Framerates = []Framerate{
	FPS23976, FPS24, FPS25, FPS29970, FPS30, FPS50, FPS59940, FPS60,
}

func (f Framerate) String() string {
	s := strconv.FormatFloat(float64(f), 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// parses "23.976", "25" or a ratio such as "24000/1001"
func ParseFramerate(s string) (Framerate, error) {
	s = strings.TrimSpace(s)
	var value float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid framerate %q: %w", s, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid framerate %q: %w", s, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("invalid framerate %q: zero denominator", s)
		}
		value = n / d
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid framerate %q: %w", s, err)
		}
		value = v
	}
	if value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid framerate %q: must be positive", s)
	}
	// snap 23.976 and friends to their exact NTSC ratios
	for _, known := range Framerates {
		if math.Abs(float64(known)-value) < 0.0005 {
			return known, nil
		}
	}
	return Framerate(value), nil
}
