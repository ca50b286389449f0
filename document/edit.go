package document

import (
	"strings"

	"github.com/driftlab/inkpad/internal/grapheme"
)

// InsertText inserts text at the cursor, or replaces the active selection.
// Text may contain newlines.
func (d *Document) InsertText(s string) {
	if s == "" {
		return
	}
	r, ok := d.Selection()
	if !ok {
		r = Range{Start: d.cursor, End: d.cursor}
	}
	d.edit(r, s)
}

// InsertNewline inserts a line break at the cursor.
func (d *Document) InsertNewline() { d.InsertText("\n") }

// DeleteBackward applies backspace semantics: the selection if active,
// otherwise the cluster before the cursor, joining lines at column 0.
func (d *Document) DeleteBackward() {
	if r, ok := d.Selection(); ok {
		d.edit(r, "")
		return
	}
	row, col := d.cursor.Row, d.cursor.Col
	if col > 0 {
		d.edit(Range{Start: Pos{Row: row, Col: col - 1}, End: Pos{Row: row, Col: col}}, "")
		return
	}
	if row == 0 {
		return
	}
	d.edit(Range{
		Start: Pos{Row: row - 1, Col: d.lineLen(row - 1)},
		End:   Pos{Row: row, Col: 0},
	}, "")
}

// DeleteForward applies delete-key semantics.
func (d *Document) DeleteForward() {
	if r, ok := d.Selection(); ok {
		d.edit(r, "")
		return
	}
	row, col := d.cursor.Row, d.cursor.Col
	if col < d.lineLen(row) {
		d.edit(Range{Start: Pos{Row: row, Col: col}, End: Pos{Row: row, Col: col + 1}}, "")
		return
	}
	if row == len(d.lines)-1 {
		return
	}
	d.edit(Range{Start: Pos{Row: row, Col: col}, End: Pos{Row: row + 1, Col: 0}}, "")
}

// DeleteSelection deletes the active selection, if any.
func (d *Document) DeleteSelection() {
	if r, ok := d.Selection(); ok {
		d.edit(r, "")
	}
}

// Replace replaces r with text as a single undoable edit and leaves the
// cursor at the end of the inserted text.
func (d *Document) Replace(r Range, text string) {
	d.edit(r, text)
}

// edit is the single mutation path: replace range with text, push an undo
// snapshot, clear redo, mark modified, bump version.
func (d *Document) edit(r Range, text string) {
	r = NormalizeRange(Range{Start: d.clampPos(r.Start), End: d.clampPos(r.End)})
	if r.IsEmpty() && text == "" {
		return
	}
	if textForRange(d.lines, r) == text {
		// Replacing a range with itself is not an edit.
		return
	}

	prev := d.snapshot()

	prefix := append([]string(nil), d.lines[r.Start.Row][:r.Start.Col]...)
	suffix := append([]string(nil), d.lines[r.End.Row][r.End.Col:]...)

	parts := strings.Split(text, "\n")
	ins := make([][]string, 0, len(parts))
	for _, p := range parts {
		ins = append(ins, grapheme.Split(p))
	}

	repl := make([][]string, 0, len(ins))
	var nextCursor Pos
	if len(ins) == 1 {
		line := make([]string, 0, len(prefix)+len(ins[0])+len(suffix))
		line = append(line, prefix...)
		line = append(line, ins[0]...)
		line = append(line, suffix...)
		repl = append(repl, line)
		nextCursor = Pos{Row: r.Start.Row, Col: len(prefix) + len(ins[0])}
	} else {
		first := append(append([]string(nil), prefix...), ins[0]...)
		repl = append(repl, first)
		for i := 1; i < len(ins)-1; i++ {
			repl = append(repl, append([]string(nil), ins[i]...))
		}
		last := append(append([]string(nil), ins[len(ins)-1]...), suffix...)
		repl = append(repl, last)
		nextCursor = Pos{Row: r.Start.Row + len(ins) - 1, Col: len(ins[len(ins)-1])}
	}

	out := make([][]string, 0, r.Start.Row+len(repl)+len(d.lines)-r.End.Row-1)
	out = append(out, d.lines[:r.Start.Row]...)
	out = append(out, repl...)
	out = append(out, d.lines[r.End.Row+1:]...)
	if len(out) == 0 {
		out = [][]string{nil}
	}

	d.lines = out
	d.cursor = nextCursor
	d.sel = selectionState{}
	d.modified = true
	d.version++
	d.recordUndo(prev)
}
