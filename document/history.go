package document

type docSnapshot struct {
	text   string
	cursor Pos
}

type historyState struct {
	undo []docSnapshot
	redo []docSnapshot
}

func (d *Document) snapshot() docSnapshot {
	return docSnapshot{text: d.Text(), cursor: d.cursor}
}

func (d *Document) restore(s docSnapshot) {
	d.lines = splitLines(s.text)
	d.cursor = d.clampPos(s.cursor)
	d.sel = selectionState{}
}

func (d *Document) recordUndo(prev docSnapshot) {
	limit := d.opt.HistoryLimit
	if limit <= 0 {
		return
	}
	d.hist.undo = append(d.hist.undo, prev)
	if len(d.hist.undo) > limit {
		d.hist.undo = d.hist.undo[len(d.hist.undo)-limit:]
	}
	d.hist.redo = nil
}

func (d *Document) CanUndo() bool { return len(d.hist.undo) > 0 }

func (d *Document) CanRedo() bool { return len(d.hist.redo) > 0 }

// Undo restores the state before the most recent edit. It reports false,
// and does nothing, when the undo stack is empty.
func (d *Document) Undo() bool {
	if len(d.hist.undo) == 0 {
		return false
	}
	cur := d.snapshot()
	i := len(d.hist.undo) - 1
	prev := d.hist.undo[i]
	d.hist.undo = d.hist.undo[:i]
	d.hist.redo = append(d.hist.redo, cur)

	d.restore(prev)
	d.modified = true
	d.version++
	return true
}

// Redo replays the most recently undone edit.
func (d *Document) Redo() bool {
	if len(d.hist.redo) == 0 {
		return false
	}
	cur := d.snapshot()
	i := len(d.hist.redo) - 1
	next := d.hist.redo[i]
	d.hist.redo = d.hist.redo[:i]
	d.hist.undo = append(d.hist.undo, cur)

	d.restore(next)
	d.modified = true
	d.version++
	return true
}
