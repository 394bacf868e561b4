package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

// Timed Text Markup Language, read and written through astisub
type ttmlCodec struct{}

func (ttmlCodec) Format() Format { return TTML }
func (ttmlCodec) Mode() position.Mode { return position.ModeTime }
func (ttmlCodec) Dialect() markup.Dialect { return markup.None }
func (ttmlCodec) Extension() string { return ".ttml" }

func (ttmlCodec) Identify(text string) bool {
	return strings.Contains(text, "<tt") && strings.Contains(text, "ttml")
}

func (ttmlCodec) Decode(text string) (*Track, error) {
	subs, err := astisub.ReadFromTTML(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{Format: TTML, Err: err}
	}

	track := &Track{Format: TTML}
	for _, item := range subs.Items {
		lines := make([]string, len(item.Lines))
		for i, line := range item.Lines {
			lines[i] = strings.TrimSpace(line.String())
		}
		s, e := timePositions(item.StartAt, item.EndAt)
		track.Cues = append(track.Cues, Cue{
			Start: s,
			End:   e,
			Text:  strings.Join(lines, "\n"),
		})
	}
	return track, nil
}

func (ttmlCodec) Encode(track *Track) (string, error) {
	subs := astisub.NewSubtitles()
	for _, cue := range track.Cues {
		item := &astisub.Item{
			StartAt: cue.Start.Time(),
			EndAt:   cue.End.Time(),
		}
		for _, text := range strings.Split(cue.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: text}},
			})
		}
		subs.Items = append(subs.Items, item)
	}

	var buf bytes.Buffer
	if err := subs.WriteToTTML(&buf); err != nil {
		return "", fmt.Errorf("failed to write ttml: %w", err)
	}
	return buf.String(), nil
}
