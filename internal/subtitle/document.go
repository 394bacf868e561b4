package subtitle

import (
	"fmt"
	"strings"
)

// text slot of a subtitle, the primary one holds the original text and the
// secondary one its translation
type Document int

const (
	Primary Document = iota
	Secondary
)

// both documents in their natural order
var Documents = []Document{Primary, Secondary}

func (d Document) String() string {
	switch d {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("Document(%d)", int(d))
	}
}

func ParseDocument(s string) (Document, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "main":
		return Primary, nil
	case "secondary", "translation":
		return Secondary, nil
	default:
		return Primary, fmt.Errorf("unknown document %q", s)
	}
}
