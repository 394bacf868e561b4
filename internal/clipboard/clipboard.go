package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// text exchange with the system clipboard
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// bridge to the desktop clipboard
type System struct{}

func (System) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func (System) WriteAll(text string) error {
	if text == "" {
		return errors.New("nothing to copy")
	}
	return clipboard.WriteAll(text)
}

// whether a system clipboard tool is present
func Available() bool {
	return !clipboard.Unsupported
}

// in-process clipboard for headless use and tests
type Memory struct {
	text string
}

func (m *Memory) ReadAll() (string, error) {
	return m.text, nil
}

func (m *Memory) WriteAll(text string) error {
	m.text = text
	return nil
}
