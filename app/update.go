package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftlab/inkpad/document"
	"github.com/driftlab/inkpad/internal/grapheme"
	"github.com/driftlab/inkpad/runner"
	"github.com/driftlab/inkpad/tabs"
	"github.com/driftlab/inkpad/watch"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanes()
		return m, nil

	case tea.BlurMsg:
		return m, m.runEffects(m.ghost.FocusLost())

	case tea.KeyMsg:
		return m.updateKey(msg)

	case ghostTimerMsg:
		return m, m.runEffects(m.ghost.TimerFired(msg.seq, m.snapshot()))

	case ghostResultMsg:
		if msg.err != nil {
			return m, m.runEffects(m.ghost.Failed(msg.seq, msg.err))
		}
		d := m.tabs.Active()
		if d == nil {
			return m, nil
		}
		return m, m.runEffects(m.ghost.Delivered(msg.seq, msg.text, d.ID(), d.Version()))

	case assistantResultMsg:
		m.busy = false
		m.pane = paneAssistant
		m.assistantTitle = msg.title
		body := msg.text
		if msg.err != nil {
			body = "Error: " + msg.err.Error()
		}
		m.layoutPanes()
		m.assistant.SetContent(wrapToWidth(body, m.assistant.Width))
		return m, nil

	case chatResultMsg:
		m.busy = false
		if msg.err != nil {
			m.chatLog = append(m.chatLog, "Assistant: error: "+msg.err.Error())
		} else {
			m.chatLog = append(m.chatLog, "Assistant: "+msg.answer)
		}
		m.refreshChat()
		return m, nil

	case runEventMsg:
		return m.updateRun(msg.ev)

	case fileEventMsg:
		return m.updateFile(msg.ev)

	case statusExpireMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.updatePrompt(msg)
	}
	if m.pane == paneChat && m.chatInput.Focused() {
		return m.updateChatInput(msg)
	}

	km := m.keys
	d := m.tabs.Active()

	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		if m.runCancel != nil {
			m.runCancel()
		}
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, km.Save):
		return m.saveActive()

	case key.Matches(msg, km.NewTab):
		m.tabs.CreateUntitled()
		m.topRow = 0
		return m, m.runEffects(m.ghost.TabSwitched())

	case key.Matches(msg, km.CloseTab):
		return m.closeActive()

	case key.Matches(msg, km.NextTab):
		m.tabs.Next()
		m.topRow = 0
		return m, m.runEffects(m.ghost.TabSwitched())

	case key.Matches(msg, km.PrevTab):
		m.tabs.Prev()
		m.topRow = 0
		return m, m.runEffects(m.ghost.TabSwitched())

	case key.Matches(msg, km.Run):
		return m.runActive()

	case key.Matches(msg, km.Explain):
		return m.explainActive()

	case key.Matches(msg, km.Chat):
		return m.toggleChat()

	case key.Matches(msg, km.TriggerGhost):
		return m, m.runEffects(m.ghost.Trigger(m.snapshot()))

	case key.Matches(msg, km.RejectGhost):
		if _, showing := m.activeGhost(); showing {
			return m, m.runEffects(m.ghost.Reject())
		}
		if m.pane != paneNone {
			m.pane = paneNone
			m.chatInput.Blur()
			return m, nil
		}
		return m, nil
	}

	if d == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, km.AcceptGhost):
		if _, showing := m.activeGhost(); showing {
			return m, m.runEffects(m.ghost.Accept())
		}
		return m.edit(func() { d.InsertText(strings.Repeat(" ", m.tabWidth())) })

	case key.Matches(msg, km.Left):
		m.moveCursor(d, moveLeft, false)
	case key.Matches(msg, km.Right):
		m.moveCursor(d, moveRight, false)
	case key.Matches(msg, km.Up):
		m.moveCursor(d, moveUp, false)
	case key.Matches(msg, km.Down):
		m.moveCursor(d, moveDown, false)
	case key.Matches(msg, km.Home):
		m.moveCursor(d, moveHome, false)
	case key.Matches(msg, km.End):
		m.moveCursor(d, moveEnd, false)

	case key.Matches(msg, km.ShiftLeft):
		m.moveCursor(d, moveLeft, true)
	case key.Matches(msg, km.ShiftRight):
		m.moveCursor(d, moveRight, true)
	case key.Matches(msg, km.ShiftUp):
		m.moveCursor(d, moveUp, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveCursor(d, moveDown, true)

	case key.Matches(msg, km.Backspace):
		return m.edit(d.DeleteBackward)
	case key.Matches(msg, km.Delete):
		return m.edit(d.DeleteForward)
	case key.Matches(msg, km.Enter):
		return m.edit(d.InsertNewline)

	case key.Matches(msg, km.Undo):
		d.Undo()
		return m, m.runEffects(m.ghost.Keystroke())
	case key.Matches(msg, km.Redo):
		d.Redo()
		return m, m.runEffects(m.ghost.Keystroke())

	case key.Matches(msg, km.Copy):
		if text := d.SelectedText(); text != "" {
			_ = clipboard.WriteAll(text)
		}
	case key.Matches(msg, km.Cut):
		if text := d.SelectedText(); text != "" {
			_ = clipboard.WriteAll(text)
			return m.edit(d.DeleteSelection)
		}
	case key.Matches(msg, km.Paste):
		if text, err := clipboard.ReadAll(); err == nil && text != "" {
			return m.edit(func() { d.InsertText(text) })
		}

	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			return m.edit(func() { d.InsertText(string(msg.Runes)) })
		}
		if msg.Type == tea.KeySpace {
			return m.edit(func() { d.InsertText(" ") })
		}
	}

	m.scrollToCursor()
	return m, nil
}

// edit applies a document mutation and notifies the ghost controller; a
// qualifying keystroke clears any shown ghost and may rearm the debounce.
func (m Model) edit(apply func()) (tea.Model, tea.Cmd) {
	apply()
	m.hasAnchor = false
	m.scrollToCursor()
	return m, m.runEffects(m.ghost.Keystroke())
}

type moveDir int

const (
	moveLeft moveDir = iota
	moveRight
	moveUp
	moveDown
	moveHome
	moveEnd
)

// moveCursor moves by one grapheme cluster or line, extending or clearing
// the selection. Movement dismisses a shown ghost without rearming.
func (m *Model) moveCursor(d *document.Document, dir moveDir, extend bool) {
	cur := d.Cursor()
	if extend && !m.hasAnchor {
		m.anchor, m.hasAnchor = cur, true
	}
	if !extend {
		m.hasAnchor = false
		d.ClearSelection()
	}

	var next document.Pos
	switch dir {
	case moveLeft:
		if cur.Col > 0 {
			next = document.Pos{Row: cur.Row, Col: cur.Col - 1}
		} else if cur.Row > 0 {
			next = document.Pos{Row: cur.Row - 1, Col: grapheme.Count(d.Line(cur.Row - 1))}
		} else {
			next = cur
		}
	case moveRight:
		if cur.Col < grapheme.Count(d.Line(cur.Row)) {
			next = document.Pos{Row: cur.Row, Col: cur.Col + 1}
		} else if cur.Row < d.LineCount()-1 {
			next = document.Pos{Row: cur.Row + 1, Col: 0}
		} else {
			next = cur
		}
	case moveUp:
		next = document.Pos{Row: cur.Row - 1, Col: cur.Col}
	case moveDown:
		next = document.Pos{Row: cur.Row + 1, Col: cur.Col}
	case moveHome:
		next = document.Pos{Row: cur.Row, Col: 0}
	case moveEnd:
		next = document.Pos{Row: cur.Row, Col: grapheme.Count(d.Line(cur.Row))}
	}
	d.SetCursor(next)

	if extend {
		d.SetSelection(document.Range{Start: m.anchor, End: d.Cursor()})
	}
	m.dismissGhostOnMove()
	m.scrollToCursor()
}

func (m *Model) dismissGhostOnMove() {
	if _, showing := m.activeGhost(); showing {
		// Effects of a pure dismissal are a Clear redraw hint only.
		m.ghost.Reject()
	}
}

func (m *Model) tabWidth() int {
	if m.settings.TabWidth > 0 {
		return m.settings.TabWidth
	}
	return 4
}

// saveActive saves the active document, prompting for a path when it has
// none.
func (m Model) saveActive() (tea.Model, tea.Cmd) {
	d := m.tabs.Active()
	if d == nil {
		return m, nil
	}
	if d.Path() == "" {
		return m.openPrompt(promptSavePath, "Save as: ", d.Title())
	}
	if err := d.Save(""); err != nil {
		return m, m.setStatus("Save failed: " + err.Error())
	}
	if m.watcher != nil {
		_ = m.watcher.Add(d.Path())
	}
	cmd := m.setStatus("Saved " + d.Title())
	return m, tea.Batch(cmd, m.runEffects(m.ghost.SaveHappened()))
}

// closeActive closes the active tab, prompting when it has unsaved
// changes.
func (m Model) closeActive() (tea.Model, tea.Cmd) {
	d := m.tabs.Active()
	if d == nil {
		return m, nil
	}
	if d.Modified() {
		m.pendingCloseID = d.ID()
		return m.openPrompt(promptCloseTab, "Save changes to "+d.Title()+"? (y)es (n)o (esc)cancel", "")
	}
	path := d.Path()
	m.tabs.Close(d.ID(), nil)
	if path != "" && m.watcher != nil {
		m.watcher.Remove(path)
	}
	if m.tabs.Len() == 0 {
		m.tabs.CreateUntitled()
	}
	m.topRow = 0
	return m, m.runEffects(m.ghost.TabSwitched())
}

func (m Model) openPrompt(kind promptKind, label, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.promptInput.Prompt = label
	m.promptInput.SetValue(value)
	m.promptInput.CursorEnd()
	return m, tea.Batch(m.promptInput.Focus(), m.runEffects(m.ghost.FocusLost()))
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.prompt {
	case promptSavePath:
		switch msg.Type {
		case tea.KeyEsc:
			m.prompt = promptNone
			m.pendingCloseID = ""
			m.promptInput.Blur()
			return m, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(m.promptInput.Value())
			if path == "" {
				return m, nil
			}
			m.prompt = promptNone
			m.promptInput.Blur()
			d := m.tabs.Active()
			if d == nil {
				return m, nil
			}
			if err := d.Save(path); err != nil {
				m.pendingCloseID = ""
				return m, m.setStatus("Save failed: " + err.Error())
			}
			if m.watcher != nil {
				_ = m.watcher.Add(d.Path())
			}
			cmd := m.setStatus("Saved " + d.Title())
			if m.pendingCloseID != "" {
				id := m.pendingCloseID
				m.pendingCloseID = ""
				m.tabs.Close(id, nil)
				if m.tabs.Len() == 0 {
					m.tabs.CreateUntitled()
				}
				m.topRow = 0
			}
			return m, tea.Batch(cmd, m.runEffects(m.ghost.SaveHappened()))
		}
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd

	case promptCloseTab:
		switch msg.String() {
		case "esc":
			m.prompt = promptNone
			m.pendingCloseID = ""
			return m, nil
		case "n", "N":
			m.prompt = promptNone
			id := m.pendingCloseID
			m.pendingCloseID = ""
			m.tabs.Close(id, func(*document.Document) tabs.CloseDecision {
				return tabs.CloseDiscard
			})
			if m.tabs.Len() == 0 {
				m.tabs.CreateUntitled()
			}
			m.topRow = 0
			return m, m.runEffects(m.ghost.TabSwitched())
		case "y", "Y":
			d := m.tabs.Active()
			if d != nil && d.Path() == "" {
				// Needs a path first; fall through to the save prompt
				// and close once saved.
				return m.openPrompt(promptSavePath, "Save as: ", d.Title())
			}
			m.prompt = promptNone
			id := m.pendingCloseID
			m.pendingCloseID = ""
			ok := m.tabs.Close(id, func(*document.Document) tabs.CloseDecision {
				return tabs.CloseSave
			})
			if !ok {
				return m, m.setStatus("Save failed; tab kept open")
			}
			if m.tabs.Len() == 0 {
				m.tabs.CreateUntitled()
			}
			m.topRow = 0
			return m, m.runEffects(m.ghost.TabSwitched())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.pane = paneNone
		m.chatInput.Blur()
		return m, nil
	case tea.KeyEnter:
		question := strings.TrimSpace(m.chatInput.Value())
		if question == "" {
			return m, nil
		}
		m.chatInput.SetValue("")
		m.chatLog = append(m.chatLog, "You: "+question)
		m.refreshChat()
		m.busy = true
		d := m.tabs.Active()
		fileName, fileContext, language := "", "", ""
		if d != nil {
			fileName, fileContext, language = d.Title(), d.Text(), d.Language()
		}
		client := m.ai
		ask := func() tea.Msg {
			answer, err := client.Chat(context.Background(), question, fileName, fileContext, language)
			return chatResultMsg{question: question, answer: answer, err: err}
		}
		return m, tea.Batch(ask, m.spin.Tick)
	}
	if key.Matches(msg, m.keys.Quit) {
		return m.updateKey(msg)
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) toggleChat() (tea.Model, tea.Cmd) {
	if m.pane == paneChat {
		m.pane = paneNone
		m.chatInput.Blur()
		return m, nil
	}
	m.pane = paneChat
	m.layoutPanes()
	m.refreshChat()
	return m, tea.Batch(m.chatInput.Focus(), m.runEffects(m.ghost.FocusLost()))
}

// explainActive asks the assistant about the selection, or the whole file
// when nothing is selected.
func (m Model) explainActive() (tea.Model, tea.Cmd) {
	d := m.tabs.Active()
	if d == nil {
		return m, nil
	}
	if !m.ai.Available() {
		return m, m.setStatus("AI assistant is not available")
	}
	code := d.SelectedText()
	if code == "" {
		code = d.Text()
	}
	m.busy = true
	client := m.ai
	fileName, language := d.Title(), d.Language()
	explain := func() tea.Msg {
		text, err := client.Explain(context.Background(), code, fileName, language)
		return assistantResultMsg{title: "Explanation", text: text, err: err}
	}
	return m, tea.Batch(explain, m.spin.Tick, m.runEffects(m.ghost.FocusLost()))
}

// runActive saves the active file and executes it, streaming output into
// the output pane. A second press while running cancels the process.
func (m Model) runActive() (tea.Model, tea.Cmd) {
	if m.running {
		if m.runCancel != nil {
			m.runCancel()
		}
		return m, nil
	}
	d := m.tabs.Active()
	if d == nil {
		return m, nil
	}
	if d.Path() == "" {
		return m.openPrompt(promptSavePath, "Save as: ", d.Title())
	}
	if d.Modified() {
		if err := d.Save(""); err != nil {
			return m, m.setStatus("Save failed: " + err.Error())
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, err := runner.Run(ctx, d.Path())
	if err != nil {
		cancel()
		return m, m.setStatus(err.Error())
	}
	m.running = true
	m.runCancel = cancel
	m.runEvents = events
	m.pane = paneOutput
	m.outputLines = []string{"$ " + d.Title()}
	m.layoutPanes()
	m.output.SetContent(strings.Join(m.outputLines, "\n"))
	return m, tea.Batch(m.waitRunEvent(events), m.runEffects(m.ghost.RunHappened()))
}

func (m Model) updateRun(ev runner.Event) (tea.Model, tea.Cmd) {
	if ev.Done {
		m.running = false
		if m.runCancel != nil {
			m.runCancel()
			m.runCancel = nil
		}
		m.outputLines = append(m.outputLines, "", "Process finished with exit code "+strconv.Itoa(ev.ExitCode))
		m.output.SetContent(strings.Join(m.outputLines, "\n"))
		m.output.GotoBottom()
		return m, nil
	}
	m.outputLines = append(m.outputLines, ev.Line)
	m.output.SetContent(strings.Join(m.outputLines, "\n"))
	m.output.GotoBottom()
	return m, m.waitRunEvent(m.runEvents)
}

func (m Model) updateFile(ev watch.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case watch.Removed:
		m.tabs.Remove(ev.Path)
		if m.tabs.Len() == 0 {
			m.tabs.CreateUntitled()
		}
		if m.watcher != nil {
			m.watcher.Remove(ev.Path)
		}
	case watch.Renamed:
		// The new name is unknown from the event alone; treat the old
		// path like a removal so the tab does not save over a ghost
		// path.
		m.tabs.Remove(ev.Path)
		if m.tabs.Len() == 0 {
			m.tabs.CreateUntitled()
		}
		if m.watcher != nil {
			m.watcher.Remove(ev.Path)
		}
	case watch.Changed:
		// External edits do not clobber in-editor changes; just flag it.
		return m, tea.Batch(m.setStatus("File changed on disk: "+ev.Path), m.waitFileEvent())
	}
	return m, tea.Batch(m.runEffects(m.ghost.TabSwitched()), m.waitFileEvent())
}

func (m *Model) refreshChat() {
	m.chatView.SetContent(wrapToWidth(strings.Join(m.chatLog, "\n\n"), m.chatView.Width))
	m.chatView.GotoBottom()
}

