package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var (
	srtTimingRegex = regexp.MustCompile(
		`^\s*(-?\d+:\d{1,2}:\d{1,2}[,.]\d{1,3})\s*-->\s*(-?\d+:\d{1,2}:\d{1,2}[,.]\d{1,3})`,
	)
	srtIdentifyRegex = regexp.MustCompile(
		`(?m)^\s*\d+:\d{2}:\d{2}[,.]\d{3}\s*-->\s*\d+:\d{2}:\d{2}[,.]\d{3}`,
	)
)

// SubRip format
type subRipCodec struct{}

func (subRipCodec) Format() Format { return SubRip }
func (subRipCodec) Mode() position.Mode { return position.ModeTime }
func (subRipCodec) Dialect() markup.Dialect { return markup.SubRip }
func (subRipCodec) Extension() string { return ".srt" }
func (subRipCodec) Identify(text string) bool { return srtIdentifyRegex.MatchString(text) }

// cue texts run from a timing line to the next one, minus the trailing
// subtitle number and blank lines, so texts may contain blank lines
func (subRipCodec) Decode(text string) (*Track, error) {
	lines := splitLines(text)
	track := &Track{Format: SubRip}

	var current *Cue
	var textLines []string
	flush := func(beforeNext bool) {
		if current == nil {
			return
		}
		textLines = trimTrailingBlank(textLines)
		if n := len(textLines); beforeNext && n > 0 {
			if _, err := strconv.Atoi(strings.TrimSpace(textLines[n-1])); err == nil {
				textLines = trimTrailingBlank(textLines[:n-1])
			}
		}
		current.Text = strings.Join(textLines, "\n")
		track.Cues = append(track.Cues, *current)
		textLines = nil
	}

	for _, l := range lines {
		matches := srtTimingRegex.FindStringSubmatch(l.text)
		if matches == nil {
			if current == nil {
				if _, err := strconv.Atoi(strings.TrimSpace(l.text)); err != nil && !isBlank(l.text) {
					return nil, l.errorf(SubRip, fmt.Errorf("expected subtitle number, got %q", l.text))
				}
				continue
			}
			textLines = append(textLines, l.text)
			continue
		}

		start, err := position.ParseTime(matches[1])
		if err != nil {
			return nil, l.errorf(SubRip, fmt.Errorf("invalid start timestamp: %w", err))
		}
		end, err := position.ParseTime(matches[2])
		if err != nil {
			return nil, l.errorf(SubRip, fmt.Errorf("invalid end timestamp: %w", err))
		}
		flush(true)
		s, e := timePositions(start, end)
		current = &Cue{Start: s, End: e}
	}
	flush(false)

	return track, nil
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (subRipCodec) Encode(track *Track) (string, error) {
	var sb strings.Builder
	for i, cue := range track.Cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(cue.Start),
			formatSRTTime(cue.End)))

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func formatSRTTime(p position.Position) string {
	return strings.Replace(position.FormatTime(p.Time()), ".", ",", 1)
}
