// Package watch observes open files on disk and reports renames and
// deletions so the tab registry can follow along.
package watch

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a file event.
type Kind int

const (
	// Removed means the file disappeared from disk.
	Removed Kind = iota
	// Renamed means the file was moved away from its watched path.
	Renamed
	// Changed means the file's content was modified externally.
	Changed
)

// Event reports a change to a watched file.
type Event struct {
	Kind Kind
	Path string
}

// Watcher wraps fsnotify and translates raw filesystem notifications into
// the small set of events the editor reacts to.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event
	done   chan struct{}
}

func New() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:     fs,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events is the stream of translated file events. Closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Add starts watching a file.
func (w *Watcher) Add(path string) error {
	return w.fs.Add(filepath.Clean(path))
}

// Remove stops watching a file. Unknown paths are not an error.
func (w *Watcher) Remove(path string) {
	_ = w.fs.Remove(filepath.Clean(path))
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if out, send := translate(ev); send {
				w.events <- out
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are not actionable from the editor; the
			// affected tab just stops tracking disk state.
		}
	}
}

func translate(ev fsnotify.Event) (Event, bool) {
	switch {
	case ev.Has(fsnotify.Remove):
		return Event{Kind: Removed, Path: ev.Name}, true
	case ev.Has(fsnotify.Rename):
		return Event{Kind: Renamed, Path: ev.Name}, true
	case ev.Has(fsnotify.Write):
		return Event{Kind: Changed, Path: ev.Name}, true
	}
	return Event{}, false
}
