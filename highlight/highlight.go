// Package highlight is a stateless lexical highlighter. It matches a fixed
// Python pattern set over the whole text and returns style spans in rune
// offsets.
//
// Each category is matched independently over the unmodified text and spans
// are emitted in category order without removing overlaps: a keyword inside
// a comment, or a number inside a string, receives spans from both
// categories. Renderers resolve the overlap by letting the last-applied
// category win, which reproduces the observed behavior of the editor this
// highlighter was ported from.
package highlight

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

// Category identifies a span's lexical class. The declaration order is the
// application order: later categories visually win over earlier ones.
type Category int

const (
	Comment Category = iota
	String
	Keyword
	Number
	FuncName
)

func (c Category) String() string {
	switch c {
	case Comment:
		return "comment"
	case String:
		return "string"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case FuncName:
		return "function"
	default:
		return "unknown"
	}
}

// Span is a half-open [Start, End) range of runes with a lexical category.
type Span struct {
	Category Category
	Start    int
	End      int
}

var (
	reComment = regexp.MustCompile(`(?m)#[^\n]*`)
	// Two alternatives instead of a backreference: RE2 has none. Escaped
	// delimiters are consumed by the `\\.` branch.
	reString  = regexp.MustCompile(`"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`)
	reKeyword = regexp.MustCompile(`\b(?:def|class|if|elif|else|for|while|return|import|from|as|try|except|finally|with|lambda|yield|pass|break|continue|and|or|not|in|is|None|True|False)\b`)
	reNumber  = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	reFunc    = regexp.MustCompile(`\bdef\s+(\w+)`)
)

// Scan tokenizes text. It is a pure function: the same text always yields
// the same spans, in ascending (Start, Category) order.
func Scan(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	add := func(cat Category, byteStart, byteEnd int) {
		spans = append(spans, Span{
			Category: cat,
			Start:    utf8.RuneCountInString(text[:byteStart]),
			End:      utf8.RuneCountInString(text[:byteEnd]),
		})
	}

	for _, m := range reComment.FindAllStringIndex(text, -1) {
		add(Comment, m[0], m[1])
	}
	for _, m := range reString.FindAllStringIndex(text, -1) {
		add(String, m[0], m[1])
	}
	for _, m := range reKeyword.FindAllStringIndex(text, -1) {
		add(Keyword, m[0], m[1])
	}
	for _, m := range reNumber.FindAllStringIndex(text, -1) {
		add(Number, m[0], m[1])
	}
	for _, m := range reFunc.FindAllStringSubmatchIndex(text, -1) {
		// Group 1 is the identifier after "def".
		add(FuncName, m[2], m[3])
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Category < spans[j].Category
	})
	return spans
}

// CategoryAt returns the winning category for the rune at off, if any.
// With overlapping spans the highest category index wins, matching the
// last-applied-wins rendering rule.
func CategoryAt(spans []Span, off int) (Category, bool) {
	best := Category(-1)
	for _, sp := range spans {
		if sp.Start <= off && off < sp.End && sp.Category > best {
			best = sp.Category
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
