package format

import (
	"strings"
	"time"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

type line struct {
	text   string
	num    int
	offset int
}

// splits on any line terminator, remembering line numbers and offsets
func splitLines(text string) []line {
	var lines []line
	offset := 0
	num := 1
	for offset <= len(text) {
		end := strings.IndexAny(text[offset:], "\r\n")
		if end < 0 {
			if offset < len(text) {
				lines = append(lines, line{text: text[offset:], num: num, offset: offset})
			}
			break
		}
		lines = append(lines, line{text: text[offset : offset+end], num: num, offset: offset})
		next := offset + end + 1
		if text[offset+end] == '\r' && next < len(text) && text[next] == '\n' {
			next++
		}
		offset = next
		num++
	}
	if len(lines) > 0 {
		lines[0].text = strings.TrimPrefix(lines[0].text, "\ufeff")
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (l line) errorf(f Format, err error) *ParseError {
	return &ParseError{Format: f, Line: l.num, Offset: l.offset, Err: err}
}

// time at centisecond precision, truncated
func formatCentiTime(d time.Duration) string {
	s := position.FormatTime(d)
	return s[:len(s)-1]
}

func timePositions(start, end time.Duration) (position.Position, position.Position) {
	return position.FromTime(start), position.FromTime(end)
}
