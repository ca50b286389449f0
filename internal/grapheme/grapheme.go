// Package grapheme provides grapheme-cluster helpers for document editing
// and rendering. Documents store lines as cluster slices so that editing
// operations never split a user-perceived character.
package grapheme

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n++
	}
	return n
}

// Join concatenates clusters back into a string.
func Join(clusters []string) string {
	if len(clusters) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// RuneLen returns the total rune count of the clusters.
func RuneLen(clusters []string) int {
	n := 0
	for _, c := range clusters {
		n += utf8.RuneCountInString(c)
	}
	return n
}

// CellWidth returns the terminal cell width of text.
func CellWidth(text string) int {
	return runewidth.StringWidth(text)
}
