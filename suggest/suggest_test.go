package suggest

import (
	"errors"
	"testing"
	"time"
)

func available(ok bool) func() bool { return func() bool { return ok } }

func newTestController() *Controller {
	return NewController(Config{
		Delay:       time.Second,
		AutoSuggest: true,
		Available:   available(true),
	})
}

func snap(docID string, version uint64, offset int) Snapshot {
	return Snapshot{DocID: docID, Version: version, Offset: offset, FileName: "x.py", Language: "python"}
}

// fx helpers

func onlyTimer(t *testing.T, fx []Effect) StartTimer {
	t.Helper()
	if len(fx) == 0 {
		t.Fatalf("expected effects, got none")
	}
	st, ok := fx[len(fx)-1].(StartTimer)
	if !ok {
		t.Fatalf("expected StartTimer, got %T", fx[len(fx)-1])
	}
	return st
}

func onlyRequest(t *testing.T, fx []Effect) Request {
	t.Helper()
	if len(fx) == 0 {
		t.Fatalf("expected effects, got none")
	}
	rq, ok := fx[len(fx)-1].(Request)
	if !ok {
		t.Fatalf("expected Request, got %T", fx[len(fx)-1])
	}
	return rq
}

func TestDebounce_RestartOnEachKeystroke(t *testing.T) {
	c := newTestController()

	t1 := onlyTimer(t, c.Keystroke())
	t2 := onlyTimer(t, c.Keystroke())
	if t1.Seq == t2.Seq {
		t.Fatalf("restarted timer must carry a new sequence")
	}
	if c.State() != StateDebouncing {
		t.Fatalf("state=%v, want debouncing", c.State())
	}

	// The superseded timer fires late: ignored.
	if fx := c.TimerFired(t1.Seq, snap("d", 1, 0)); fx != nil {
		t.Fatalf("stale timer fire must be ignored, got %v", fx)
	}
	if c.State() != StateDebouncing {
		t.Fatalf("state=%v, want debouncing", c.State())
	}

	// Only the last pause triggers a request.
	rq := onlyRequest(t, c.TimerFired(t2.Seq, snap("d", 1, 0)))
	if c.State() != StateAwaiting {
		t.Fatalf("state=%v, want awaiting", c.State())
	}
	if rq.Snapshot.DocID != "d" {
		t.Fatalf("request snapshot=%+v", rq.Snapshot)
	}
}

func TestAutoSuggestDisabled_NeverDebounces(t *testing.T) {
	c := NewController(Config{AutoSuggest: false, Available: available(true)})
	if fx := c.Keystroke(); len(fx) != 0 {
		t.Fatalf("expected no effects, got %v", fx)
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle", c.State())
	}
}

func TestUnavailable_KeystrokeIdleAndManualTriggerDegrades(t *testing.T) {
	c := NewController(Config{AutoSuggest: true, Available: available(false)})
	if fx := c.Keystroke(); len(fx) != 0 {
		t.Fatalf("unavailable client must not arm the debounce, got %v", fx)
	}

	fx := c.Trigger(snap("d", 1, 0))
	if len(fx) != 1 {
		t.Fatalf("effects=%v, want one status", fx)
	}
	if _, ok := fx[0].(Status); !ok {
		t.Fatalf("expected Status, got %T", fx[0])
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle", c.State())
	}
}

func TestScenario_CompletionResolvesAndIsAccepted(t *testing.T) {
	c := newTestController()

	// "def add(a, b):\n    " — cursor at offset 19, version 7.
	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("doc-1", 7, 19)))

	fx := c.Delivered(rq.Seq, "return a + b", "doc-1", 7)
	if len(fx) != 1 {
		t.Fatalf("effects=%v, want one Show", fx)
	}
	show, ok := fx[0].(Show)
	if !ok {
		t.Fatalf("expected Show, got %T", fx[0])
	}
	if show.Ghost.Text != "return a + b" || show.Ghost.Offset != 19 || show.Ghost.DocID != "doc-1" {
		t.Fatalf("ghost=%+v", show.Ghost)
	}
	if g, ok := c.Ghost(); !ok || g != show.Ghost {
		t.Fatalf("Ghost()=%+v,%v", g, ok)
	}

	fx = c.Accept()
	if len(fx) != 2 {
		t.Fatalf("effects=%v, want Clear+Commit", fx)
	}
	commit, ok := fx[1].(Commit)
	if !ok {
		t.Fatalf("expected Commit, got %T", fx[1])
	}
	if commit.Text != "return a + b" || commit.Offset != 19 || commit.DocID != "doc-1" {
		t.Fatalf("commit=%+v", commit)
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle after accept", c.State())
	}
	if _, ok := c.Ghost(); ok {
		t.Fatalf("ghost must be gone after accept")
	}
}

func TestScenario_KeystrokeDuringAwaitingDropsResponse(t *testing.T) {
	c := newTestController()

	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("doc-1", 7, 19)))

	// The user types before the network reply lands; the timer re-arms.
	onlyTimer(t, c.Keystroke())
	if c.State() != StateDebouncing {
		t.Fatalf("state=%v, want debouncing", c.State())
	}

	// The reply arrives late: it must never display.
	if fx := c.Delivered(rq.Seq, "stale text", "doc-1", 8); fx != nil {
		t.Fatalf("stale response must be dropped, got %v", fx)
	}
	if _, ok := c.Ghost(); ok {
		t.Fatalf("no ghost may exist after a stale delivery")
	}
	if c.State() != StateDebouncing {
		t.Fatalf("state=%v, want debouncing (new keystroke re-armed)", c.State())
	}
}

func TestDelivered_DocumentMovedOn(t *testing.T) {
	c := newTestController()
	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("doc-1", 7, 19)))

	// Same sequence, but the document was edited (version drifted).
	if fx := c.Delivered(rq.Seq, "text", "doc-1", 9); fx != nil {
		t.Fatalf("version drift must drop the response, got %v", fx)
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle", c.State())
	}

	// Different document active at delivery.
	st = onlyTimer(t, c.Keystroke())
	rq = onlyRequest(t, c.TimerFired(st.Seq, snap("doc-1", 9, 19)))
	if fx := c.Delivered(rq.Seq, "text", "doc-2", 9); fx != nil {
		t.Fatalf("doc switch must drop the response, got %v", fx)
	}
}

func TestDelivered_EmptyOrWhitespaceShowsNothing(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		c := newTestController()
		st := onlyTimer(t, c.Keystroke())
		rq := onlyRequest(t, c.TimerFired(st.Seq, snap("d", 1, 0)))
		if fx := c.Delivered(rq.Seq, text, "d", 1); fx != nil {
			t.Fatalf("%q: expected no effects, got %v", text, fx)
		}
		if c.State() != StateIdle {
			t.Fatalf("%q: state=%v, want idle", text, c.State())
		}
	}
}

func TestAtMostOneGhost_SupersededByNewKeystroke(t *testing.T) {
	c := newTestController()
	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("d", 1, 5)))
	c.Delivered(rq.Seq, "one", "d", 1)
	if _, ok := c.Ghost(); !ok {
		t.Fatalf("expected a ghost")
	}

	// Typing while displaying supersedes: clear first, then re-debounce.
	fx := c.Keystroke()
	if len(fx) != 2 {
		t.Fatalf("effects=%v, want Clear+StartTimer", fx)
	}
	if _, ok := fx[0].(Clear); !ok {
		t.Fatalf("expected Clear first, got %T", fx[0])
	}
	if _, ok := c.Ghost(); ok {
		t.Fatalf("superseded ghost must be cleared immediately")
	}
	if c.State() != StateDebouncing {
		t.Fatalf("state=%v, want debouncing", c.State())
	}
}

func TestDismissal_AllContextLossEventsClear(t *testing.T) {
	events := []struct {
		name string
		fire func(c *Controller) []Effect
	}{
		{"reject", func(c *Controller) []Effect { return c.Reject() }},
		{"focus-lost", func(c *Controller) []Effect { return c.FocusLost() }},
		{"tab-switch", func(c *Controller) []Effect { return c.TabSwitched() }},
		{"save", func(c *Controller) []Effect { return c.SaveHappened() }},
		{"run", func(c *Controller) []Effect { return c.RunHappened() }},
	}
	for _, ev := range events {
		c := newTestController()
		st := onlyTimer(t, c.Keystroke())
		rq := onlyRequest(t, c.TimerFired(st.Seq, snap("d", 1, 0)))
		c.Delivered(rq.Seq, "ghost", "d", 1)

		fx := ev.fire(c)
		if len(fx) != 1 {
			t.Fatalf("%s: effects=%v, want one Clear", ev.name, fx)
		}
		if _, ok := fx[0].(Clear); !ok {
			t.Fatalf("%s: expected Clear, got %T", ev.name, fx[0])
		}
		if _, ok := c.Ghost(); ok {
			t.Fatalf("%s: ghost must be cleared", ev.name)
		}
		if c.State() != StateIdle {
			t.Fatalf("%s: state=%v, want idle", ev.name, c.State())
		}
	}
}

func TestDismissal_CancelsInFlightRequest(t *testing.T) {
	c := newTestController()
	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("d", 1, 0)))

	c.TabSwitched()
	if fx := c.Delivered(rq.Seq, "text", "d", 1); fx != nil {
		t.Fatalf("response after tab switch must be dropped, got %v", fx)
	}
}

func TestFailed_SurfacesStatusAndRecovers(t *testing.T) {
	c := newTestController()
	st := onlyTimer(t, c.Keystroke())
	rq := onlyRequest(t, c.TimerFired(st.Seq, snap("d", 1, 0)))

	fx := c.Failed(rq.Seq, errors.New("timeout"))
	if len(fx) != 1 {
		t.Fatalf("effects=%v, want one Status", fx)
	}
	if _, ok := fx[0].(Status); !ok {
		t.Fatalf("expected Status, got %T", fx[0])
	}
	if c.State() != StateIdle {
		t.Fatalf("state=%v, want idle", c.State())
	}

	// A stale failure is silent.
	if fx := c.Failed(rq.Seq, errors.New("again")); fx != nil {
		t.Fatalf("stale failure must be silent, got %v", fx)
	}
}

func TestTrigger_BypassesDebounce(t *testing.T) {
	c := newTestController()
	rq := onlyRequest(t, c.Trigger(snap("d", 3, 7)))
	if c.State() != StateAwaiting {
		t.Fatalf("state=%v, want awaiting", c.State())
	}
	fx := c.Delivered(rq.Seq, "x()", "d", 3)
	if len(fx) != 1 {
		t.Fatalf("effects=%v, want Show", fx)
	}
}

func TestAcceptReject_NoGhostAreNoOps(t *testing.T) {
	c := newTestController()
	if fx := c.Accept(); fx != nil {
		t.Fatalf("accept without ghost must be a no-op, got %v", fx)
	}
	if fx := c.Reject(); fx != nil {
		t.Fatalf("reject without ghost must have no Clear effect, got %v", fx)
	}
}

func TestDefaultDelay(t *testing.T) {
	c := NewController(Config{AutoSuggest: true})
	st := onlyTimer(t, c.Keystroke())
	if st.Delay != 1500*time.Millisecond {
		t.Fatalf("delay=%v, want 1.5s", st.Delay)
	}
}
