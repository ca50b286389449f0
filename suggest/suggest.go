// Package suggest owns the lifecycle of the single AI ghost suggestion: a
// transient, cancelable completion overlaid ahead of the cursor.
//
// The controller is a pure state machine. The host (the UI event loop)
// feeds it events — qualifying keystrokes, debounce timer fires, delivered
// or failed completions, accept/reject and context-loss signals — and
// executes the effects it returns: arming timers, issuing requests, and
// committing accepted text into the document. The controller never touches
// a document or the network itself, which keeps every transition totally
// ordered with respect to the UI loop.
//
// Staleness is handled at delivery, not by cancellation: every armed timer
// and issued request carries a sequence number, and results tagged with a
// superseded number are dropped on arrival.
package suggest

import (
	"strings"
	"time"
)

// State is the controller's lifecycle position.
type State int

const (
	// StateIdle: no suggestion work pending.
	StateIdle State = iota
	// StateDebouncing: waiting for a typing pause before requesting.
	StateDebouncing
	// StateAwaiting: a completion request is in flight.
	StateAwaiting
	// StateDisplaying: a ghost suggestion is shown ahead of the cursor.
	StateDisplaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateAwaiting:
		return "awaiting-response"
	case StateDisplaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// Snapshot captures the editing context a completion request is issued
// against. DocID and Version anchor the staleness check at delivery.
type Snapshot struct {
	DocID   string
	Version uint64
	Offset  int // rune offset of the cursor

	Before      string // text before the cursor
	After       string // text after the cursor
	CurrentLine string
	FileName    string
	Language    string
}

// Ghost is the displayed suggestion: view-only text anchored at a rune
// offset in its owning document. It is never part of the document content
// until accepted.
type Ghost struct {
	DocID  string
	Offset int
	Text   string
}

// Config tunes the controller.
type Config struct {
	// Delay is the debounce quiet period. Default 1500ms.
	Delay time.Duration
	// AutoSuggest arms the debounce on qualifying keystrokes. Manual
	// triggering works regardless.
	AutoSuggest bool
	// Available reports whether the completion client can serve requests.
	Available func() bool
}

// Controller coordinates at most one ghost suggestion across the whole
// application.
type Controller struct {
	cfg Config

	state State

	timerSeq uint64 // invalidates earlier timers when bumped
	reqSeq   uint64 // invalidates in-flight requests when bumped

	pending Snapshot // context of the in-flight request
	ghost   Ghost
}

func NewController(cfg Config) *Controller {
	if cfg.Delay <= 0 {
		cfg.Delay = 1500 * time.Millisecond
	}
	return &Controller{cfg: cfg}
}

func (c *Controller) State() State { return c.state }

// Ghost returns the displayed suggestion, if any. This is the single
// source of truth for rendering: when it reports false, no overlay exists
// anywhere in the application.
func (c *Controller) Ghost() (Ghost, bool) {
	if c.state != StateDisplaying {
		return Ghost{}, false
	}
	return c.ghost, true
}

func (c *Controller) available() bool {
	return c.cfg.Available == nil || c.cfg.Available()
}

// Keystroke handles a qualifying (text-producing) keystroke in the active
// document. A displayed ghost is superseded; a pending timer restarts; an
// in-flight request is invalidated so its eventual response is dropped.
func (c *Controller) Keystroke() []Effect {
	var fx []Effect
	if c.state == StateDisplaying {
		c.ghost = Ghost{}
		fx = append(fx, Clear{})
	}
	c.reqSeq++ // any in-flight response is now stale

	if !c.cfg.AutoSuggest || !c.available() {
		c.state = StateIdle
		return fx
	}
	c.timerSeq++
	c.state = StateDebouncing
	return append(fx, StartTimer{Seq: c.timerSeq, Delay: c.cfg.Delay})
}

// TimerFired handles a debounce timer expiry. snap is the editing context
// captured by the host at fire time. Stale timer sequences are ignored.
func (c *Controller) TimerFired(seq uint64, snap Snapshot) []Effect {
	if c.state != StateDebouncing || seq != c.timerSeq {
		return nil
	}
	c.reqSeq++
	c.pending = snap
	c.state = StateAwaiting
	return []Effect{Request{Seq: c.reqSeq, Snapshot: snap}}
}

// Trigger requests a completion immediately, bypassing the debounce. When
// the client is unavailable it degrades to a status message.
func (c *Controller) Trigger(snap Snapshot) []Effect {
	if !c.available() {
		return []Effect{Status{Message: "AI assistant is not available"}}
	}
	var fx []Effect
	if c.state == StateDisplaying {
		c.ghost = Ghost{}
		fx = append(fx, Clear{})
	}
	c.timerSeq++ // cancel any armed timer
	c.reqSeq++
	c.pending = snap
	c.state = StateAwaiting
	return append(fx, Request{Seq: c.reqSeq, Snapshot: snap})
}

// Delivered handles a resolved completion. The response only displays when
// its sequence is still live and the active document matches the identity
// and version captured at request time; anything else is silently dropped.
// Empty or whitespace-only completions display nothing.
func (c *Controller) Delivered(seq uint64, text, activeDocID string, activeVersion uint64) []Effect {
	if c.state != StateAwaiting || seq != c.reqSeq {
		return nil
	}
	if activeDocID != c.pending.DocID || activeVersion != c.pending.Version {
		c.state = StateIdle
		return nil
	}
	if strings.TrimSpace(text) == "" {
		c.state = StateIdle
		return nil
	}
	c.ghost = Ghost{DocID: c.pending.DocID, Offset: c.pending.Offset, Text: text}
	c.state = StateDisplaying
	return []Effect{Show{Ghost: c.ghost}}
}

// Failed handles a completion error. The error surfaces as a status
// message only; the controller returns to idle and never propagates.
func (c *Controller) Failed(seq uint64, err error) []Effect {
	if c.state != StateAwaiting || seq != c.reqSeq {
		return nil
	}
	c.state = StateIdle
	return []Effect{Status{Message: "AI completion failed: " + err.Error()}}
}

// Accept promotes the displayed ghost into real document content as one
// normal, undoable edit. The ghost is cleared before the commit effect is
// emitted, so the buffer change caused by the commit cannot be mistaken
// for the user typing over the ghost.
func (c *Controller) Accept() []Effect {
	if c.state != StateDisplaying {
		return nil
	}
	g := c.ghost
	c.ghost = Ghost{}
	c.state = StateIdle
	return []Effect{Clear{}, Commit{DocID: g.DocID, Offset: g.Offset, Text: g.Text}}
}

// Reject discards the displayed ghost, restoring the view to exactly its
// pre-overlay state.
func (c *Controller) Reject() []Effect {
	return c.dismiss()
}

// FocusLost clears any ghost and cancels pending work.
func (c *Controller) FocusLost() []Effect { return c.dismiss() }

// TabSwitched clears any ghost and cancels pending work; a suggestion is
// only ever valid in the tab it was requested from.
func (c *Controller) TabSwitched() []Effect { return c.dismiss() }

// SaveHappened clears any ghost so overlay text can never reach disk.
func (c *Controller) SaveHappened() []Effect { return c.dismiss() }

// RunHappened clears any ghost before the document is executed.
func (c *Controller) RunHappened() []Effect { return c.dismiss() }

func (c *Controller) dismiss() []Effect {
	c.timerSeq++
	c.reqSeq++
	hadGhost := c.state == StateDisplaying
	c.ghost = Ghost{}
	c.state = StateIdle
	if hadGhost {
		return []Effect{Clear{}}
	}
	return nil
}
