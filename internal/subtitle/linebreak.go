package subtitle

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxCharsPerLine = 42 // standard subtitle line length
	DefaultMaxLines        = 2  // most players support 2 lines
)

// rewraps subtitle text into balanced lines
type LineBreaker struct {
	MaxCharsPerLine int
	MaxLines        int
}

func NewLineBreaker() *LineBreaker {
	return &LineBreaker{
		MaxCharsPerLine: DefaultMaxCharsPerLine,
		MaxLines:        DefaultMaxLines,
	}
}

// whether text exceeds what fits on screen
func (b *LineBreaker) TooLong(text string) bool {
	return utf8.RuneCountInString(strings.Join(strings.Fields(text), " ")) > b.MaxCharsPerLine*b.MaxLines
}

// joins the lines of text and splits them again at the word boundaries
// closest to equal length, never more lines than needed
func (b *LineBreaker) Break(text string) string {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	runeCount := utf8.RuneCountInString(joined)

	// if text fits on one line, return as is
	if runeCount <= b.MaxCharsPerLine || len(words) < 2 {
		return joined
	}

	lines := (runeCount + b.MaxCharsPerLine - 1) / b.MaxCharsPerLine
	if b.MaxLines > 0 && lines > b.MaxLines {
		lines = b.MaxLines
	}
	return strings.Join(splitBalanced(words, lines), "\n")
}

// splits words into n lines, each cut closest to its share of the length
func splitBalanced(words []string, n int) []string {
	if n <= 1 || len(words) < 2 {
		return []string{strings.Join(words, " ")}
	}

	runeCount := utf8.RuneCountInString(strings.Join(words, " "))
	target := runeCount / n
	bestSplit := 1
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - target)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	head := strings.Join(words[:bestSplit], " ")
	return append([]string{head}, splitBalanced(words[bestSplit:], n-1)...)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
