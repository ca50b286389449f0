// Package app assembles the editor: the tab registry, document editing,
// syntax highlighting, the ghost suggestion controller, the AI assistant
// panes, and the file runner, all behind one Bubble Tea model.
//
// The model is the single owner of all editor state. Background work
// (completion requests, subprocess output, file watching) reenters the
// event loop as messages, so every state transition happens on the update
// goroutine.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlab/inkpad/ai"
	"github.com/driftlab/inkpad/config"
	"github.com/driftlab/inkpad/document"
	"github.com/driftlab/inkpad/runner"
	"github.com/driftlab/inkpad/suggest"
	"github.com/driftlab/inkpad/tabs"
	"github.com/driftlab/inkpad/watch"
)

type paneKind int

const (
	paneNone paneKind = iota
	paneOutput
	paneAssistant
	paneChat
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSavePath
	promptCloseTab
)

// Messages reentering the update loop from background work.
type (
	ghostTimerMsg struct{ seq uint64 }

	ghostResultMsg struct {
		seq  uint64
		text string
		err  error
	}

	assistantResultMsg struct {
		title string
		text  string
		err   error
	}

	chatResultMsg struct {
		question string
		answer   string
		err      error
	}

	runEventMsg struct{ ev runner.Event }

	fileEventMsg struct{ ev watch.Event }

	statusExpireMsg struct{ seq int }
)

// Model is the top-level Bubble Tea model.
type Model struct {
	keys     KeyMap
	styles   Styles
	settings config.Settings

	tabs    *tabs.Registry
	ghost   *suggest.Controller
	ai      *ai.Client
	watcher *watch.Watcher

	width, height int
	topRow        int // first visible editor row

	// Selection anchor for shift+movement.
	anchor    document.Pos
	hasAnchor bool

	status    string
	statusSeq int

	pane        paneKind
	output      viewport.Model
	outputLines []string
	running     bool
	runCancel   context.CancelFunc
	runEvents   <-chan runner.Event

	assistant      viewport.Model
	assistantTitle string
	busy           bool
	spin           spinner.Model

	chatView  viewport.Model
	chatInput textinput.Model
	chatLog   []string

	prompt         promptKind
	promptInput    textinput.Model
	pendingCloseID string

	quitting bool
}

// New builds the application model. paths are files to open at startup; an
// empty list starts with one untitled tab.
func New(settings config.Settings, client *ai.Client, paths []string) Model {
	reg := tabs.NewRegistry()
	for _, p := range paths {
		if _, err := reg.OpenOrFocus(p); err != nil {
			// Missing startup files become empty tabs titled after the
			// path so a later save creates them.
			d := reg.CreateUntitled()
			d.SetPath(p)
		}
	}
	if reg.Len() == 0 {
		reg.CreateUntitled()
	}

	ctrl := suggest.NewController(suggest.Config{
		Delay:       time.Duration(settings.AISuggestionMS) * time.Millisecond,
		AutoSuggest: settings.AIAutoSuggest && settings.AIEnabled,
		Available:   client.Available,
	})

	w, _ := watch.New() // nil watcher just disables external-change tracking
	m := Model{
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		settings:  settings,
		tabs:      reg,
		ghost:     ctrl,
		ai:        client,
		watcher:   w,
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		chatInput: textinput.New(),
	}
	m.chatInput.Placeholder = "Ask about your code..."
	m.promptInput = textinput.New()
	if w != nil {
		for _, d := range reg.Documents() {
			if d.Path() != "" {
				_ = w.Add(d.Path())
			}
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.waitFileEvent()
	}
	return nil
}

// snapshot captures the active document's editing context for a
// completion request.
func (m *Model) snapshot() suggest.Snapshot {
	d := m.tabs.Active()
	if d == nil {
		return suggest.Snapshot{}
	}
	cur := d.Cursor()
	off := d.OffsetOf(cur)
	return suggest.Snapshot{
		DocID:       d.ID(),
		Version:     d.Version(),
		Offset:      off,
		Before:      d.TextBefore(off),
		After:       d.TextAfter(off),
		CurrentLine: d.Line(cur.Row),
		FileName:    d.Title(),
		Language:    d.Language(),
	}
}

// runEffects executes controller effects, translating them into document
// edits and Bubble Tea commands.
func (m *Model) runEffects(effects []suggest.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case suggest.StartTimer:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return ghostTimerMsg{seq: seq}
			}))
		case suggest.Request:
			cmds = append(cmds, m.requestCompletion(e))
		case suggest.Commit:
			if d := m.tabs.Active(); d != nil && d.ID() == e.DocID {
				d.InsertAt(e.Offset, e.Text)
			}
		case suggest.Status:
			cmds = append(cmds, m.setStatus(e.Message))
		case suggest.Show, suggest.Clear:
			// The overlay renders straight from the controller state;
			// nothing to do beyond the redraw this update triggers.
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) requestCompletion(req suggest.Request) tea.Cmd {
	client := m.ai
	return func() tea.Msg {
		text, err := client.Complete(context.Background(), ai.Request{
			CodeBefore:  req.Snapshot.Before,
			CodeAfter:   req.Snapshot.After,
			CurrentLine: req.Snapshot.CurrentLine,
			FileName:    req.Snapshot.FileName,
			Language:    req.Snapshot.Language,
		})
		return ghostResultMsg{seq: req.Seq, text: text, err: err}
	}
}

// setStatus shows a transient status-bar message.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

func (m *Model) waitFileEvent() tea.Cmd {
	ch := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return fileEventMsg{ev: ev}
	}
}

func (m *Model) waitRunEvent(ch <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return runEventMsg{ev: ev}
	}
}

// activeGhost returns the ghost overlay if it belongs to the active
// document.
func (m *Model) activeGhost() (suggest.Ghost, bool) {
	g, ok := m.ghost.Ghost()
	if !ok {
		return suggest.Ghost{}, false
	}
	d := m.tabs.Active()
	if d == nil || d.ID() != g.DocID {
		return suggest.Ghost{}, false
	}
	return g, true
}

func (m *Model) cursorStatus() string {
	d := m.tabs.Active()
	if d == nil {
		return ""
	}
	cur := d.Cursor()
	return fmt.Sprintf("Ln %d, Col %d", cur.Row+1, cur.Col+1)
}
