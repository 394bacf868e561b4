package format

import (
	"fmt"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var (
	assColumns = []string{"Layer", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV", "Effect", "Text"}
	ssaColumns = []string{"Marked", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV", "Effect", "Text"}

	// values for dialogue fields a cue does not carry
	ssaDefaults = map[string]string{
		"Layer":   "0",
		"Marked":  "Marked=0",
		"Style":   "Default",
		"MarginL": "0",
		"MarginR": "0",
		"MarginV": "0",
	}
)

// SubStation Alpha and Advanced SubStation Alpha formats
//
// Everything before the [Events] section is kept as the header. Dialogue
// fields other than the times and text travel in the cue's extra fields.
type ssaCodec struct {
	format Format
}

func (c ssaCodec) Format() Format { return c.format }
func (ssaCodec) Mode() position.Mode { return position.ModeTime }
func (ssaCodec) Dialect() markup.Dialect { return markup.SSA }

func (c ssaCodec) Extension() string {
	if c.format == ASS {
		return ".ass"
	}
	return ".ssa"
}

func (c ssaCodec) Identify(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "[script info]") {
		return false
	}
	advanced := strings.Contains(lower, "[v4+ styles]") || strings.Contains(lower, "v4.00+")
	return advanced == (c.format == ASS)
}

func (c ssaCodec) Decode(text string) (*Track, error) {
	track := &Track{Format: c.format}

	var header []string
	var columns []string
	textColumnIndex := -1
	inEventsSection := false

	for _, l := range splitLines(text) {
		trimmedLine := strings.TrimSpace(l.text)

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			sectionName := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			inEventsSection = sectionName == "events"
			if !inEventsSection {
				header = append(header, l.text)
			}
			continue
		}

		if !inEventsSection {
			header = append(header, l.text)
			continue
		}

		if strings.HasPrefix(trimmedLine, "Format:") {
			formatPart := strings.TrimPrefix(trimmedLine, "Format:")
			columns = strings.Split(formatPart, ",")
			for i, col := range columns {
				columns[i] = strings.TrimSpace(col)
				if strings.EqualFold(columns[i], "Text") {
					textColumnIndex = i
				}
			}
			if textColumnIndex == -1 {
				return nil, l.errorf(c.format, fmt.Errorf("missing Text column in Format line"))
			}
			continue
		}

		if strings.HasPrefix(trimmedLine, "Dialogue:") {
			if columns == nil {
				return nil, l.errorf(c.format, fmt.Errorf("Dialogue before Format line"))
			}
			cue, err := parseDialogue(trimmedLine, columns, textColumnIndex)
			if err != nil {
				return nil, l.errorf(c.format, err)
			}
			track.Cues = append(track.Cues, cue)
		}
	}

	if columns == nil {
		return nil, &ParseError{Format: c.format, Err: fmt.Errorf("missing Format line in [Events] section")}
	}
	track.Header = strings.Join(trimTrailingBlank(header), "\n")
	return track, nil
}

func parseDialogue(line string, columns []string, textColumnIndex int) (Cue, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	parts := splitASSFields(content, len(columns))
	if len(parts) < len(columns) {
		return Cue{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(parts))
	}

	cue := Cue{Extra: map[string]string{}}
	for i, col := range columns {
		value := parts[i]
		switch {
		case i == textColumnIndex:
			text := strings.ReplaceAll(value, "\\N", "\n")
			cue.Text = strings.ReplaceAll(text, "\\n", "\n")
		case strings.EqualFold(col, "Start"):
			d, err := position.ParseTime(strings.TrimSpace(value))
			if err != nil {
				return Cue{}, fmt.Errorf("invalid start timestamp: %w", err)
			}
			cue.Start = position.FromTime(d)
		case strings.EqualFold(col, "End"):
			d, err := position.ParseTime(strings.TrimSpace(value))
			if err != nil {
				return Cue{}, fmt.Errorf("invalid end timestamp: %w", err)
			}
			cue.End = position.FromTime(d)
		default:
			cue.Extra[col] = value
		}
	}
	return cue, nil
}

// splits into numFields fields, the last one keeping any commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

func (c ssaCodec) Encode(track *Track) (string, error) {
	var sb strings.Builder

	header := track.Header
	if strings.TrimSpace(header) == "" {
		header = c.defaultHeader()
	}
	sb.WriteString(header)
	sb.WriteString("\n\n[Events]\n")

	columns := assColumns
	if c.format == SSA {
		columns = ssaColumns
	}
	sb.WriteString("Format: " + strings.Join(columns, ", ") + "\n")

	for _, cue := range track.Cues {
		fields := make([]string, len(columns))
		for i, col := range columns {
			switch col {
			case "Start":
				fields[i] = formatASSTime(cue.Start)
			case "End":
				fields[i] = formatASSTime(cue.End)
			case "Text":
				fields[i] = strings.ReplaceAll(cue.Text, "\n", "\\N")
			default:
				value, ok := cue.Extra[col]
				if !ok {
					value = ssaDefaults[col]
				}
				fields[i] = value
			}
		}
		sb.WriteString("Dialogue: " + strings.Join(fields, ",") + "\n")
	}
	return sb.String(), nil
}

func (c ssaCodec) defaultHeader() string {
	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	if c.format == ASS {
		sb.WriteString("ScriptType: v4.00+\n")
	} else {
		sb.WriteString("ScriptType: v4.00\n")
	}
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	if c.format == ASS {
		sb.WriteString("[V4+ Styles]\n")
		sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
		sb.WriteString("Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1")
	} else {
		sb.WriteString("[V4 Styles]\n")
		sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, TertiaryColour, BackColour, Bold, Italic, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, AlphaLevel, Encoding\n")
		sb.WriteString("Style: Default,Arial,20,16777215,255,0,0,0,0,1,2,2,2,10,10,10,0,1")
	}
	return sb.String()
}

// H:MM:SS.cc
func formatASSTime(p position.Position) string {
	return strings.TrimPrefix(formatCentiTime(p.Time()), "0")
}
