// Package tabs manages the ordered set of open documents and which one is
// active. It enforces at most one open tab per file path.
package tabs

import (
	"fmt"

	"github.com/driftlab/inkpad/document"
)

// CloseDecision is the three-way answer to "close a modified document?".
type CloseDecision int

const (
	// CloseSave writes the document before closing. Closing aborts if the
	// save fails (for example, no path yet).
	CloseSave CloseDecision = iota
	// CloseDiscard closes without saving.
	CloseDiscard
	// CloseCancel aborts the close entirely.
	CloseCancel
)

// Registry owns the open documents, in tab order.
type Registry struct {
	docs     []*document.Document
	active   int // index into docs, -1 when empty
	untitled int // process-lifetime counter, never reused
}

func NewRegistry() *Registry {
	return &Registry{active: -1}
}

// Len returns the number of open tabs.
func (r *Registry) Len() int { return len(r.docs) }

// Documents returns the open documents in tab order.
func (r *Registry) Documents() []*document.Document {
	return append([]*document.Document(nil), r.docs...)
}

// Active returns the active document, or nil when no tab is open.
func (r *Registry) Active() *document.Document {
	if r.active < 0 || r.active >= len(r.docs) {
		return nil
	}
	return r.docs[r.active]
}

// ActiveIndex returns the active tab index, or -1 when empty.
func (r *Registry) ActiveIndex() int {
	if r.active >= len(r.docs) {
		return -1
	}
	return r.active
}

// SetActive activates the tab at index i, ignoring out-of-range values.
func (r *Registry) SetActive(i int) {
	if i < 0 || i >= len(r.docs) {
		return
	}
	r.active = i
}

// ActivateID activates the tab holding the document with the given ID.
func (r *Registry) ActivateID(id string) bool {
	for i, d := range r.docs {
		if d.ID() == id {
			r.active = i
			return true
		}
	}
	return false
}

// Next cycles the active tab forward.
func (r *Registry) Next() {
	if len(r.docs) == 0 {
		return
	}
	r.active = (r.active + 1) % len(r.docs)
}

// Prev cycles the active tab backward.
func (r *Registry) Prev() {
	if len(r.docs) == 0 {
		return
	}
	r.active = (r.active - 1 + len(r.docs)) % len(r.docs)
}

// OpenOrFocus opens path in a new tab, or activates the existing tab if the
// path is already open. The second open of a path never loads a second
// document.
func (r *Registry) OpenOrFocus(path string) (*document.Document, error) {
	for i, d := range r.docs {
		if d.Path() != "" && d.Path() == path {
			r.active = i
			return d, nil
		}
	}
	d, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	r.docs = append(r.docs, d)
	r.active = len(r.docs) - 1
	return d, nil
}

// CreateUntitled opens a new empty document titled Untitled-N. N increments
// for the lifetime of the registry and is never reused, even after the tab
// closes.
func (r *Registry) CreateUntitled() *document.Document {
	r.untitled++
	d := document.New(fmt.Sprintf("Untitled-%d", r.untitled))
	r.docs = append(r.docs, d)
	r.active = len(r.docs) - 1
	return d
}

// Close removes the tab holding the document with the given ID. For a
// modified document, decide resolves the three-way save/discard/cancel
// choice; CloseCancel (or a failed save) aborts the close and the tab
// stays open. Close reports whether the tab was removed.
//
// When the active tab closes, the tab at the same index becomes active, or
// the new last tab if the closed one was last. Closing the only tab leaves
// the registry with no active tab.
func (r *Registry) Close(id string, decide func(*document.Document) CloseDecision) bool {
	idx := -1
	for i, d := range r.docs {
		if d.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	d := r.docs[idx]
	if d.Modified() && decide != nil {
		switch decide(d) {
		case CloseSave:
			if err := d.Save(""); err != nil {
				return false
			}
		case CloseDiscard:
		case CloseCancel:
			return false
		}
	}

	r.docs = append(r.docs[:idx], r.docs[idx+1:]...)
	switch {
	case len(r.docs) == 0:
		r.active = -1
	case r.active > idx:
		r.active--
	case r.active == idx && r.active >= len(r.docs):
		r.active = len(r.docs) - 1
	}
	return true
}

// Rename retargets any open document matching old to the new path. Used
// after an external file rename.
func (r *Registry) Rename(old, new string) bool {
	for _, d := range r.docs {
		if d.Path() == old {
			d.SetPath(new)
			return true
		}
	}
	return false
}

// Remove force-closes any tab whose document points at path, without a
// save prompt. Used after an external file delete. It reports whether a
// tab was removed.
func (r *Registry) Remove(path string) bool {
	for _, d := range r.docs {
		if d.Path() == path {
			return r.Close(d.ID(), nil)
		}
	}
	return false
}
