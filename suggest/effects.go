package suggest

import "time"

// Effect is an action the host must perform on behalf of the controller.
// Effects are returned in order and are safe to apply sequentially within
// one event-loop tick.
type Effect interface{ effect() }

// StartTimer arms the debounce timer. A later StartTimer supersedes an
// earlier one; the host tags the expiry with Seq so the controller can
// ignore stale fires.
type StartTimer struct {
	Seq   uint64
	Delay time.Duration
}

// Request issues an asynchronous completion request for Snapshot. The host
// must deliver the result via Delivered or Failed with the same Seq.
type Request struct {
	Seq      uint64
	Snapshot Snapshot
}

// Show displays the ghost overlay ahead of the cursor.
type Show struct{ Ghost Ghost }

// Clear removes any ghost overlay. Hosts that render the overlay purely
// from Controller.Ghost may treat this as a redraw hint; it is emitted on
// every transition that removes a ghost so no dangling overlay can survive.
type Clear struct{}

// Commit inserts Text at Offset in the identified document as a single
// normal edit, part of the undo history, with the cursor left at the end
// of the inserted text.
type Commit struct {
	DocID  string
	Offset int
	Text   string
}

// Status surfaces a message on the status bar.
type Status struct{ Message string }

func (StartTimer) effect() {}
func (Request) effect()    {}
func (Show) effect()       {}
func (Clear) effect()      {}
func (Commit) effect()     {}
func (Status) effect()     {}
