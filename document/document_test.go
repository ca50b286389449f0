package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Empty(t *testing.T) {
	d := New("Untitled-1")
	if got, want := d.Text(), ""; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if d.Path() != "" {
		t.Fatalf("path=%q, want empty", d.Path())
	}
	if d.Modified() {
		t.Fatalf("new document must not be modified")
	}
	if d.ID() == "" {
		t.Fatalf("expected non-empty ID")
	}
}

func TestLoad_ReadsFileAndFailsOnMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.py")
	if err := os.WriteFile(path, []byte("print(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := d.Text(), "print(1)\n"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := d.Title(), "x.py"; got != want {
		t.Fatalf("title=%q, want %q", got, want)
	}
	if d.Modified() {
		t.Fatalf("loaded document must not be modified")
	}

	if _, err := Load(filepath.Join(dir, "missing.py")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSave_NoPathThenAdoptPath(t *testing.T) {
	d := New("Untitled-1")
	d.InsertText("x = 1")
	if err := d.Save(""); err != ErrNoPath {
		t.Fatalf("Save err=%v, want ErrNoPath", err)
	}

	path := filepath.Join(t.TempDir(), "x.py")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.Modified() {
		t.Fatalf("modified must clear after save")
	}
	if got, want := d.Path(), path; got != want {
		t.Fatalf("path=%q, want %q", got, want)
	}
	if got, want := d.Title(), "x.py"; got != want {
		t.Fatalf("title=%q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "x = 1"; got != want {
		t.Fatalf("file=%q, want %q", got, want)
	}

	// Scenario: subsequent edits dirty the document again.
	d.InsertText("\n")
	if !d.Modified() {
		t.Fatalf("edit after save must set modified")
	}
}

func TestModified_MonotonicUnderEdits(t *testing.T) {
	d := FromText("t", "abc")
	if d.Modified() {
		t.Fatalf("fresh document must not be modified")
	}
	d.SetCursor(Pos{Row: 0, Col: 3})
	if d.Modified() {
		t.Fatalf("cursor motion must not dirty the document")
	}
	d.DeleteBackward()
	if !d.Modified() {
		t.Fatalf("delete must dirty the document")
	}
	d.Undo()
	if !d.Modified() {
		t.Fatalf("undo keeps the dirty flag; only save clears it")
	}
}

func TestSelection_TextAndClear(t *testing.T) {
	d := FromText("t", "hello\nworld")
	d.SetSelection(Range{Start: Pos{Row: 0, Col: 3}, End: Pos{Row: 1, Col: 2}})
	if got, want := d.SelectedText(), "lo\nwo"; got != want {
		t.Fatalf("selected=%q, want %q", got, want)
	}

	d.ClearSelection()
	if _, ok := d.Selection(); ok {
		t.Fatalf("expected no selection after clear")
	}

	// Empty ranges never activate a selection.
	d.SetSelection(Range{Start: Pos{Row: 0, Col: 2}, End: Pos{Row: 0, Col: 2}})
	if _, ok := d.Selection(); ok {
		t.Fatalf("empty range must not select")
	}
}

func TestLanguage_FromExtension(t *testing.T) {
	d := New("Untitled-1")
	if got, want := d.Language(), "python"; got != want {
		t.Fatalf("language=%q, want %q", got, want)
	}
	d.SetPath("/tmp/a.go")
	if got, want := d.Language(), "go"; got != want {
		t.Fatalf("language=%q, want %q", got, want)
	}
}
