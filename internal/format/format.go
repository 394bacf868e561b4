package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otsaloma/gaupol-sub002/internal/markup"
	"github.com/otsaloma/gaupol-sub002/internal/position"
)

// subtitle file format
type Format string

const (
	SubRip     Format = "subrip"
	WebVTT     Format = "webvtt"
	SSA        Format = "ssa"
	ASS        Format = "ass"
	MicroDVD   Format = "microdvd"
	SubViewer2 Format = "subviewer2"
	TTML       Format = "ttml"
)

var ErrUnsupported = errors.New("unsupported subtitle format")

// no codec recognized the content
type FormatError struct {
	Name string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupported, e.Name)
}

func (e *FormatError) Unwrap() error {
	return ErrUnsupported
}

// a codec recognized the format but the content is malformed
type ParseError struct {
	Format Format
	Line   int // 1-based
	Offset int // byte offset of the line
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("failed to parse %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf(
		"failed to parse %s at line %d (offset %d): %v",
		e.Format,
		e.Line,
		e.Offset,
		e.Err,
	)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// single timed entry of a file
type Cue struct {
	Start position.Position
	End   position.Position
	Text  string
	Extra map[string]string
}

// decoded file content
type Track struct {
	Format Format
	// format specific preamble, kept verbatim
	Header string
	// framerate declared by the file, zero when absent
	Framerate position.Framerate
	Cues      []Cue
}

// converts between file text and tracks
//
// Decode yields positions in the codec's mode and Encode expects them in it.
// Texts use the codec's markup dialect and "\n" line breaks.
type Codec interface {
	Format() Format
	Mode() position.Mode
	Dialect() markup.Dialect
	Extension() string
	Identify(text string) bool
	Decode(text string) (*Track, error)
	Encode(track *Track) (string, error)
}

// codecs in detection order, most specific first
var codecs = []Codec{
	ssaCodec{format: ASS},
	ssaCodec{format: SSA},
	webVTTCodec{},
	ttmlCodec{},
	subViewer2Codec{},
	subRipCodec{},
	microDVDCodec{},
}

func Codecs() []Codec {
	return append([]Codec(nil), codecs...)
}

func Get(f Format) (Codec, error) {
	for _, c := range codecs {
		if c.Format() == f {
			return c, nil
		}
	}
	return nil, &FormatError{Name: string(f)}
}

// format from a name or file extension, "srt" and ".srt" both give SubRip
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch name {
	case "srt", "subrip":
		return SubRip, nil
	case "vtt", "webvtt":
		return WebVTT, nil
	case "ssa":
		return SSA, nil
	case "ass":
		return ASS, nil
	case "sub", "microdvd":
		return MicroDVD, nil
	case "subviewer", "subviewer2":
		return SubViewer2, nil
	case "ttml", "dfxp", "xml":
		return TTML, nil
	default:
		return "", &FormatError{Name: s}
	}
}

// codec for the file extension of path
func ByExtension(path string) (Codec, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, &FormatError{Name: filepath.Base(path)}
	}
	return Get(f)
}

// codec recognizing the content
func Detect(text string) (Codec, error) {
	for _, c := range codecs {
		if c.Identify(text) {
			return c, nil
		}
	}
	return nil, &FormatError{Name: "content"}
}

// codec for a file, by content and then by extension
//
// SubViewer2 and MicroDVD share the .sub extension, so content wins.
func Identify(path, text string) (Codec, error) {
	if c, err := Detect(text); err == nil {
		return c, nil
	}
	if c, err := ByExtension(path); err == nil {
		return c, nil
	}
	return nil, &FormatError{Name: filepath.Base(path)}
}
