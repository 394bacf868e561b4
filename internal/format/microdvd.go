package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var microDVDRegex = regexp.MustCompile(`^\{(-?\d+)\}\{(-?\d+)\}(.*)$`)

// MicroDVD format, frame based with "|" line breaks
//
// A leading {1}{1}23.976 cue declares the framerate.
type microDVDCodec struct{}

func (microDVDCodec) Format() Format { return MicroDVD }
func (microDVDCodec) Mode() position.Mode { return position.ModeFrame }
func (microDVDCodec) Dialect() markup.Dialect { return markup.MicroDVD }
func (microDVDCodec) Extension() string { return ".sub" }

func (microDVDCodec) Identify(text string) bool {
	for _, l := range splitLines(text) {
		if isBlank(l.text) {
			continue
		}
		return microDVDRegex.MatchString(strings.TrimSpace(l.text))
	}
	return false
}

func (microDVDCodec) Decode(text string) (*Track, error) {
	track := &Track{Format: MicroDVD}
	for _, l := range splitLines(text) {
		if isBlank(l.text) {
			continue
		}
		matches := microDVDRegex.FindStringSubmatch(strings.TrimSpace(l.text))
		if matches == nil {
			return nil, l.errorf(MicroDVD, fmt.Errorf("invalid line %q", l.text))
		}
		start, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, l.errorf(MicroDVD, fmt.Errorf("invalid start frame: %w", err))
		}
		end, err := strconv.Atoi(matches[2])
		if err != nil {
			return nil, l.errorf(MicroDVD, fmt.Errorf("invalid end frame: %w", err))
		}

		if len(track.Cues) == 0 && track.Framerate == 0 && start == end && start <= 1 {
			if f, err := position.ParseFramerate(matches[3]); err == nil {
				track.Framerate = f
				continue
			}
		}

		track.Cues = append(track.Cues, Cue{
			Start: position.FromFrame(start),
			End:   position.FromFrame(end),
			Text:  strings.ReplaceAll(matches[3], "|", "\n"),
		})
	}
	return track, nil
}

func (microDVDCodec) Encode(track *Track) (string, error) {
	var sb strings.Builder
	if track.Framerate > 0 {
		sb.WriteString("{1}{1}" + track.Framerate.String() + "\n")
	}
	for _, cue := range track.Cues {
		sb.WriteString(fmt.Sprintf("{%d}{%d}%s\n",
			cue.Start.Frame(),
			cue.End.Frame(),
			strings.ReplaceAll(cue.Text, "\n", "|")))
	}
	return sb.String(), nil
}
