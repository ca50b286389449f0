package document

import (
	"unicode/utf8"

	"github.com/driftlab/inkpad/internal/grapheme"
)

// Rune-offset view of the document. Newlines count as a single rune.
// Offsets are clamped into [0, RuneLen].

// RuneLen returns the document length in runes.
func (d *Document) RuneLen() int {
	total := 0
	for row, line := range d.lines {
		total += grapheme.RuneLen(line)
		if row < len(d.lines)-1 {
			total++
		}
	}
	return total
}

// OffsetOf converts a position to a rune offset.
func (d *Document) OffsetOf(p Pos) int {
	p = d.clampPos(p)
	off := 0
	for row := 0; row < p.Row; row++ {
		off += grapheme.RuneLen(d.lines[row])
		off++
	}
	for col := 0; col < p.Col; col++ {
		off += utf8.RuneCountInString(d.lines[p.Row][col])
	}
	return off
}

// PosAt converts a rune offset to a position. Offsets falling inside a
// multi-rune grapheme cluster round down to the cluster start.
func (d *Document) PosAt(off int) Pos {
	if off < 0 {
		off = 0
	}
	cur := 0
	for row, line := range d.lines {
		col := 0
		for _, cluster := range line {
			next := cur + utf8.RuneCountInString(cluster)
			if off < next {
				return Pos{Row: row, Col: col}
			}
			cur = next
			col++
		}
		if off == cur || row == len(d.lines)-1 {
			return Pos{Row: row, Col: col}
		}
		cur++ // newline
	}
	return d.clampPos(Pos{Row: len(d.lines) - 1, Col: d.lineLen(len(d.lines) - 1)})
}

// InsertAt inserts text at a rune offset as a single undoable edit.
func (d *Document) InsertAt(off int, text string) {
	p := d.PosAt(off)
	d.Replace(Range{Start: p, End: p}, text)
}

// DeleteRange deletes the rune range [start, end) as a single undoable edit.
func (d *Document) DeleteRange(start, end int) {
	if end < start {
		start, end = end, start
	}
	d.Replace(Range{Start: d.PosAt(start), End: d.PosAt(end)}, "")
}

// TextBefore returns all text before the given offset.
func (d *Document) TextBefore(off int) string {
	return textForRange(d.lines, Range{Start: Pos{}, End: d.PosAt(off)})
}

// TextAfter returns all text at and after the given offset.
func (d *Document) TextAfter(off int) string {
	end := Pos{Row: len(d.lines) - 1, Col: d.lineLen(len(d.lines) - 1)}
	return textForRange(d.lines, Range{Start: d.PosAt(off), End: end})
}
