// Package document holds the in-memory state of one open file: its text,
// cursor and selection, undo/redo history, and save/modify status.
//
// Lines are stored as slices of grapheme clusters. All mutating operations
// record an undo snapshot, clear the redo stack, mark the document
// modified, and bump the version counter. The version is what asynchronous
// consumers (ghost suggestions, highlights) use for staleness checks.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/driftlab/inkpad/internal/grapheme"
)

// ErrNoPath is returned by Save when the document has no backing path and
// none was provided. Callers should prompt for a destination.
var ErrNoPath = errors.New("document has no file path")

// Options tunes document behavior.
type Options struct {
	HistoryLimit int // undo depth; default 1000
}

type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

// Document is one open file's editable state.
type Document struct {
	id    string
	path  string
	title string

	lines   [][]string
	cursor  Pos
	sel     selectionState
	version uint64

	modified bool

	opt  Options
	hist historyState
}

// New returns an empty, untitled document.
func New(title string) *Document {
	return newDocument(title, "", "")
}

// FromText returns an unsaved document seeded with text.
func FromText(title, text string) *Document {
	return newDocument(title, "", text)
}

// Load reads path fully into a new document. The returned error wraps the
// underlying I/O failure and is surfaced to the caller, never retried.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := newDocument(filepath.Base(path), path, string(data))
	return d, nil
}

func newDocument(title, path, text string) *Document {
	return &Document{
		id:    uuid.NewString(),
		path:  path,
		title: title,
		lines: splitLines(text),
		opt:   Options{HistoryLimit: 1000},
	}
}

// ID is the document's opaque, process-unique handle.
func (d *Document) ID() string { return d.id }

func (d *Document) Path() string { return d.path }

func (d *Document) Title() string { return d.title }

// Modified reports whether the content has been edited since the last save
// (or since load). It is monotonic under edits: only Save clears it.
func (d *Document) Modified() bool { return d.modified }

// Version is a monotonic counter bumped on every effective mutation.
func (d *Document) Version() uint64 { return d.version }

func (d *Document) Text() string {
	var sb strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(grapheme.Join(line))
	}
	return sb.String()
}

func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the text of row, or "" if row is out of range.
func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return grapheme.Join(d.lines[row])
}

func (d *Document) Cursor() Pos { return d.cursor }

// SetCursor moves the cursor, clamped into bounds. Cursor motion does not
// touch the modified flag or the undo history.
func (d *Document) SetCursor(p Pos) {
	next := d.clampPos(p)
	if next == d.cursor {
		return
	}
	d.cursor = next
	d.version++
}

func (d *Document) Selection() (Range, bool) {
	if !d.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: d.sel.anchor, End: d.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

func (d *Document) SetSelection(r Range) {
	start := d.clampPos(r.Start)
	end := d.clampPos(r.End)
	if NormalizeRange(Range{Start: start, End: end}).IsEmpty() {
		d.ClearSelection()
		return
	}
	d.sel = selectionState{active: true, anchor: start, end: end}
	d.version++
}

func (d *Document) ClearSelection() {
	if !d.sel.active {
		return
	}
	d.sel = selectionState{}
	d.version++
}

// SelectedText returns the text under the active selection, if any.
func (d *Document) SelectedText() string {
	r, ok := d.Selection()
	if !ok {
		return ""
	}
	return textForRange(d.lines, r)
}

// Save writes the content to path, or to the existing path when path is
// empty. On success the modified flag clears; a newly provided path is
// adopted and the title follows it.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	if path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(path, []byte(d.Text()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	d.path = path
	d.title = filepath.Base(path)
	d.modified = false
	return nil
}

// SetPath retargets the document after an external rename. The content and
// modified flag are untouched.
func (d *Document) SetPath(path string) {
	d.path = path
	d.title = filepath.Base(path)
}

// Language guesses the language tag from the file extension. Untitled
// documents default to python, matching the editor's highlighter.
func (d *Document) Language() string {
	switch filepath.Ext(d.path) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".js":
		return "javascript"
	case "":
		return "python"
	default:
		return strings.TrimPrefix(filepath.Ext(d.path), ".")
	}
}

func (d *Document) lineLen(row int) int {
	if row < 0 || row >= len(d.lines) {
		return 0
	}
	return len(d.lines[row])
}

func (d *Document) clampPos(p Pos) Pos {
	row := clampInt(p.Row, 0, len(d.lines)-1)
	col := clampInt(p.Col, 0, d.lineLen(row))
	return Pos{Row: row, Col: col}
}

func splitLines(text string) [][]string {
	parts := strings.Split(text, "\n")
	lines := make([][]string, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, grapheme.Split(s))
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}
	return lines
}

func textForRange(lines [][]string, r Range) string {
	r = NormalizeRange(r)
	if r.IsEmpty() {
		return ""
	}
	if r.Start.Row == r.End.Row {
		return grapheme.Join(lines[r.Start.Row][r.Start.Col:r.End.Col])
	}
	var sb strings.Builder
	for row := r.Start.Row; row <= r.End.Row; row++ {
		if row > r.Start.Row {
			sb.WriteByte('\n')
		}
		start, end := 0, len(lines[row])
		if row == r.Start.Row {
			start = r.Start.Col
		}
		if row == r.End.Row {
			end = r.End.Col
		}
		sb.WriteString(grapheme.Join(lines[row][start:end]))
	}
	return sb.String()
}
