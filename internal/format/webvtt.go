package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var vttTimingRegex = regexp.MustCompile(
	`^\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})\s+-->\s+((?:\d+:)?\d{2}:\d{2}\.\d{3})(.*)$`,
)

// WebVTT format
type webVTTCodec struct{}

func (webVTTCodec) Format() Format { return WebVTT }
func (webVTTCodec) Mode() position.Mode { return position.ModeTime }
func (webVTTCodec) Dialect() markup.Dialect { return markup.WebVTT }
func (webVTTCodec) Extension() string { return ".vtt" }

func (webVTTCodec) Identify(text string) bool {
	return strings.HasPrefix(strings.TrimPrefix(text, "\ufeff"), "WEBVTT")
}

func (webVTTCodec) Decode(text string) (*Track, error) {
	lines := splitLines(text)
	if len(lines) == 0 || !strings.HasPrefix(lines[0].text, "WEBVTT") {
		return nil, &ParseError{Format: WebVTT, Line: 1, Err: fmt.Errorf("missing WEBVTT header")}
	}

	track := &Track{Format: WebVTT}
	i := 0
	var header []string
	for ; i < len(lines) && !isBlank(lines[i].text); i++ {
		header = append(header, lines[i].text)
	}
	track.Header = strings.Join(header, "\n")

	for i < len(lines) {
		l := lines[i]
		trimmed := strings.TrimSpace(l.text)
		if trimmed == "" {
			i++
			continue
		}

		// NOTE, STYLE and REGION blocks carry no cues
		if strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") ||
			strings.HasPrefix(trimmed, "REGION") {
			for i < len(lines) && !isBlank(lines[i].text) {
				i++
			}
			continue
		}

		id := ""
		if !strings.Contains(l.text, "-->") {
			id = trimmed
			i++
			if i >= len(lines) {
				return nil, l.errorf(WebVTT, fmt.Errorf("cue %q has no timing", id))
			}
			l = lines[i]
		}

		matches := vttTimingRegex.FindStringSubmatch(l.text)
		if matches == nil {
			return nil, l.errorf(WebVTT, fmt.Errorf("invalid timing line %q", l.text))
		}
		start, err := parseVTTTimestamp(matches[1])
		if err != nil {
			return nil, l.errorf(WebVTT, fmt.Errorf("invalid start timestamp: %w", err))
		}
		end, err := parseVTTTimestamp(matches[2])
		if err != nil {
			return nil, l.errorf(WebVTT, fmt.Errorf("invalid end timestamp: %w", err))
		}

		cue := Cue{Start: start, End: end}
		if id != "" {
			cue.Extra = map[string]string{"id": id}
		}
		if settings := strings.TrimSpace(matches[3]); settings != "" {
			if cue.Extra == nil {
				cue.Extra = map[string]string{}
			}
			cue.Extra["settings"] = settings
		}

		i++
		var textLines []string
		for ; i < len(lines) && !isBlank(lines[i].text); i++ {
			textLines = append(textLines, lines[i].text)
		}
		cue.Text = strings.Join(textLines, "\n")
		track.Cues = append(track.Cues, cue)
	}

	return track, nil
}

// short timestamps omit the hours
func parseVTTTimestamp(ts string) (position.Position, error) {
	if strings.Count(ts, ":") == 1 {
		ts = "00:" + ts
	}
	d, err := position.ParseTime(ts)
	if err != nil {
		return position.Position{}, err
	}
	return position.FromTime(d), nil
}

func (webVTTCodec) Encode(track *Track) (string, error) {
	var sb strings.Builder

	header := track.Header
	if !strings.HasPrefix(header, "WEBVTT") {
		header = "WEBVTT"
	}
	sb.WriteString(header)
	sb.WriteString("\n\n")

	for i, cue := range track.Cues {
		// optional cue identifier
		if id := cue.Extra["id"]; id != "" {
			sb.WriteString(id + "\n")
		} else {
			sb.WriteString(fmt.Sprintf("%d\n", i+1))
		}

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s",
			position.FormatTime(cue.Start.Time()),
			position.FormatTime(cue.End.Time())))
		if settings := cue.Extra["settings"]; settings != "" {
			sb.WriteString(" " + settings)
		}
		sb.WriteString("\n")

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
