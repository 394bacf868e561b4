package charset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// candidate that defers to Detect
const Auto = "auto"

// returned when no candidate encoding decodes the data
type DecodeError struct {
	Tried []string
}

func (e *DecodeError) Error() string {
	if len(e.Tried) == 0 {
		return "failed to decode: no encodings to try"
	}
	return fmt.Sprintf("failed to decode with any of: %s", strings.Join(e.Tried, ", "))
}

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// canonical name of an encoding label, "latin1" becomes "windows-1252"
//
// ASCII is kept apart since the web index folds it into windows-1252.
func Canonical(name string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	switch label {
	case "ascii", "us-ascii":
		return "ascii", nil
	case Auto:
		return Auto, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return canonical, nil
}

// decodes data strictly, failing on bytes the encoding cannot map
func Decode(data []byte, name string) (string, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return "", err
	}
	switch canonical {
	case "ascii":
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("invalid ascii byte 0x%02x at offset %d", b, i)
			}
		}
		return string(data), nil
	case "utf-8":
		data = bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid utf-8 data")
		}
		return string(data), nil
	case Auto:
		return "", fmt.Errorf("cannot decode with %q, detect first", Auto)
	}

	enc, err := htmlindex.Get(canonical)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	text, err := enc.NewDecoder().String(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", canonical, err)
	}
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", fmt.Errorf("data is not valid %s", canonical)
	}
	return strings.TrimPrefix(text, "\ufeff"), nil
}

// encodes text, failing on characters the encoding cannot represent
func Encode(text, name string) ([]byte, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	switch canonical {
	case "ascii":
		for i, r := range text {
			if r >= utf8.RuneSelf {
				return nil, fmt.Errorf("character %q at offset %d is not ascii", r, i)
			}
		}
		return []byte(text), nil
	case "utf-8":
		return []byte(text), nil
	case Auto:
		return nil, fmt.Errorf("cannot encode with %q", Auto)
	}

	enc, err := htmlindex.Get(canonical)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if canonical == "utf-16le" || canonical == "utf-16be" {
		enc = utf16WithBOM(canonical)
	}
	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", canonical, err)
	}
	return []byte(out), nil
}

func utf16WithBOM(canonical string) encoding.Encoding {
	if canonical == "utf-16be" {
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
}

// guesses the encoding from a byte order mark or valid utf-8, empty when
// the data is ambiguous
func Detect(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	case utf8.Valid(data):
		return "utf-8"
	}
	return ""
}

// tries each candidate in order and reports the one that worked
//
// The Auto candidate runs Detect and tries its guess. Unknown names count as
// failed attempts so a typo in a fallback list does not abort the others.
func DecodeAny(data []byte, candidates []string) (text, used string, err error) {
	var tried []string
	for _, candidate := range candidates {
		name := candidate
		if strings.EqualFold(strings.TrimSpace(candidate), Auto) {
			name = Detect(data)
			if name == "" {
				tried = append(tried, Auto)
				continue
			}
		}
		text, err := Decode(data, name)
		if err != nil {
			tried = append(tried, name)
			continue
		}
		canonical, _ := Canonical(name)
		return text, canonical, nil
	}
	return "", "", &DecodeError{Tried: tried}
}
