package tabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftlab/inkpad/document"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenOrFocus_NeverDuplicates(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "a = 1")
	b := writeFile(t, dir, "b.py", "b = 2")

	d1, err := r.OpenOrFocus(a)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.OpenOrFocus(b); err != nil {
		t.Fatal(err)
	}
	if got, want := r.ActiveIndex(), 1; got != want {
		t.Fatalf("active=%d, want %d", got, want)
	}

	d3, err := r.OpenOrFocus(a)
	if err != nil {
		t.Fatal(err)
	}
	if d3 != d1 {
		t.Fatalf("second open of same path must return the first document")
	}
	if got, want := r.Len(), 2; got != want {
		t.Fatalf("len=%d, want %d", got, want)
	}
	if got, want := r.ActiveIndex(), 0; got != want {
		t.Fatalf("second open must focus the first tab: active=%d, want %d", got, want)
	}
}

func TestOpenOrFocus_LoadErrorLeavesRegistryUntouched(t *testing.T) {
	r := NewRegistry()
	if _, err := r.OpenOrFocus("/nonexistent/zzz.py"); err == nil {
		t.Fatalf("expected load error")
	}
	if r.Len() != 0 || r.Active() != nil {
		t.Fatalf("failed open must not register a tab")
	}
}

func TestCreateUntitled_CounterNeverReused(t *testing.T) {
	r := NewRegistry()
	d1 := r.CreateUntitled()
	d2 := r.CreateUntitled()
	d3 := r.CreateUntitled()
	if d1.Title() != "Untitled-1" || d2.Title() != "Untitled-2" || d3.Title() != "Untitled-3" {
		t.Fatalf("titles=%q,%q,%q", d1.Title(), d2.Title(), d3.Title())
	}

	if !r.Close(d2.ID(), nil) {
		t.Fatalf("close failed")
	}
	d4 := r.CreateUntitled()
	if got, want := d4.Title(), "Untitled-4"; got != want {
		t.Fatalf("title=%q, want %q (counter never reused)", got, want)
	}
}

func TestClose_ModifiedThreeWay(t *testing.T) {
	r := NewRegistry()
	d := r.CreateUntitled()
	d.InsertText("x")

	closed := r.Close(d.ID(), func(*document.Document) CloseDecision { return CloseCancel })
	if closed || r.Len() != 1 {
		t.Fatalf("cancel must abort the close")
	}

	// Save with no path fails, which also aborts.
	closed = r.Close(d.ID(), func(*document.Document) CloseDecision { return CloseSave })
	if closed || r.Len() != 1 {
		t.Fatalf("failed save must abort the close")
	}

	closed = r.Close(d.ID(), func(*document.Document) CloseDecision { return CloseDiscard })
	if !closed || r.Len() != 0 {
		t.Fatalf("discard must close the tab")
	}
	if r.Active() != nil {
		t.Fatalf("empty registry has no active tab")
	}
}

func TestClose_UnmodifiedSkipsPrompt(t *testing.T) {
	r := NewRegistry()
	d := r.CreateUntitled()
	prompted := false
	r.Close(d.ID(), func(*document.Document) CloseDecision {
		prompted = true
		return CloseCancel
	})
	if prompted {
		t.Fatalf("unmodified close must not prompt")
	}
	if r.Len() != 0 {
		t.Fatalf("unmodified tab must close")
	}
}

func TestClose_ActiveReselectionPolicy(t *testing.T) {
	r := NewRegistry()
	a := r.CreateUntitled()
	b := r.CreateUntitled()
	c := r.CreateUntitled()

	// Close the middle tab while it is active: same index stays active.
	r.SetActive(1)
	r.Close(b.ID(), nil)
	if got := r.Active(); got != c {
		t.Fatalf("active=%v, want the tab that slid into the same index", got.Title())
	}

	// Close the last tab while active: the new last tab becomes active.
	r.SetActive(1)
	r.Close(c.ID(), nil)
	if got := r.Active(); got != a {
		t.Fatalf("active=%q, want %q", got.Title(), a.Title())
	}
}

func TestClose_BeforeActiveShiftsIndex(t *testing.T) {
	r := NewRegistry()
	a := r.CreateUntitled()
	_ = a
	b := r.CreateUntitled()
	c := r.CreateUntitled()
	r.SetActive(2)
	r.Close(b.ID(), nil)
	if got := r.Active(); got != c {
		t.Fatalf("active must follow the same document across the shift")
	}
}

func TestRenameAndRemove(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "a = 1")
	d, err := r.OpenOrFocus(a)
	if err != nil {
		t.Fatal(err)
	}
	d.InsertText("!") // modified; Remove must still close without prompting

	moved := filepath.Join(dir, "renamed.py")
	if !r.Rename(a, moved) {
		t.Fatalf("rename did not match open document")
	}
	if got, want := d.Path(), moved; got != want {
		t.Fatalf("path=%q, want %q", got, want)
	}
	if got, want := d.Title(), "renamed.py"; got != want {
		t.Fatalf("title=%q, want %q", got, want)
	}

	if !r.Remove(moved) {
		t.Fatalf("remove did not match open document")
	}
	if r.Len() != 0 {
		t.Fatalf("remove must close the tab")
	}

	if r.Rename("nope", "x") || r.Remove("nope") {
		t.Fatalf("rename/remove on unknown path must report false")
	}
}
