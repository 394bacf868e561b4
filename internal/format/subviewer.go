package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var (
	subViewerTimingRegex   = regexp.MustCompile(`^\s*(\d+:\d{2}:\d{2}\.\d{2}),(\d+:\d{2}:\d{2}\.\d{2})\s*$`)
	subViewerIdentifyRegex = regexp.MustCompile(`(?m)^\s*\d+:\d{2}:\d{2}\.\d{2},\d+:\d{2}:\d{2}\.\d{2}\s*$`)
)

const subViewerHeader = `[INFORMATION]
[TITLE]
[AUTHOR]
[SOURCE]
[PRG]
[FILEPATH]
[DELAY]0
[CD TRACK]0
[COMMENT]
[END INFORMATION]
[SUBTITLE]
[COLF]&HFFFFFF,[STYLE]no,[SIZE]24,[FONT]Arial`

// SubViewer 2.0 format, centisecond times with [br] line breaks
type subViewer2Codec struct{}

func (subViewer2Codec) Format() Format { return SubViewer2 }
func (subViewer2Codec) Mode() position.Mode { return position.ModeTime }
func (subViewer2Codec) Dialect() markup.Dialect { return markup.None }
func (subViewer2Codec) Extension() string { return ".sub" }

func (subViewer2Codec) Identify(text string) bool {
	return subViewerIdentifyRegex.MatchString(text)
}

func (subViewer2Codec) Decode(text string) (*Track, error) {
	lines := splitLines(text)
	track := &Track{Format: SubViewer2}

	i := 0
	var header []string
	for ; i < len(lines) && !subViewerTimingRegex.MatchString(lines[i].text); i++ {
		header = append(header, lines[i].text)
	}
	track.Header = strings.Join(trimTrailingBlank(header), "\n")

	for i < len(lines) {
		l := lines[i]
		if isBlank(l.text) {
			i++
			continue
		}
		matches := subViewerTimingRegex.FindStringSubmatch(l.text)
		if matches == nil {
			return nil, l.errorf(SubViewer2, fmt.Errorf("invalid timing line %q", l.text))
		}
		start, err := position.ParseTime(matches[1])
		if err != nil {
			return nil, l.errorf(SubViewer2, fmt.Errorf("invalid start timestamp: %w", err))
		}
		end, err := position.ParseTime(matches[2])
		if err != nil {
			return nil, l.errorf(SubViewer2, fmt.Errorf("invalid end timestamp: %w", err))
		}

		i++
		var textLines []string
		for ; i < len(lines) && !isBlank(lines[i].text); i++ {
			textLines = append(textLines, lines[i].text)
		}
		s, e := timePositions(start, end)
		track.Cues = append(track.Cues, Cue{
			Start: s,
			End:   e,
			Text:  strings.ReplaceAll(strings.Join(textLines, "\n"), "[br]", "\n"),
		})
	}
	return track, nil
}

func (subViewer2Codec) Encode(track *Track) (string, error) {
	var sb strings.Builder
	header := track.Header
	if strings.TrimSpace(header) == "" {
		header = subViewerHeader
	}
	sb.WriteString(header)
	sb.WriteString("\n\n")
	for _, cue := range track.Cues {
		sb.WriteString(fmt.Sprintf("%s,%s\n",
			formatCentiTime(cue.Start.Time()),
			formatCentiTime(cue.End.Time())))
		sb.WriteString(strings.ReplaceAll(cue.Text, "\n", "[br]"))
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
