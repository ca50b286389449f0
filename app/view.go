package app

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/driftlab/inkpad/document"
	"github.com/driftlab/inkpad/highlight"
	"github.com/driftlab/inkpad/internal/grapheme"
	"github.com/driftlab/inkpad/suggest"
)

// editorRows is how many document rows fit between the tab bar and the
// bottom chrome.
func (m *Model) editorRows() int {
	rows := m.height - 2 // tab bar + status bar
	if m.pane != paneNone {
		rows -= m.paneHeight() + 1 // pane body + title
	}
	if m.prompt != promptNone || m.pane == paneChat {
		rows-- // prompt or chat input line
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) paneHeight() int {
	h := m.height / 3
	if h < 4 {
		h = 4
	}
	return h
}

func (m *Model) layoutPanes() {
	w, h := m.width, m.paneHeight()
	if w <= 0 {
		w = 80
	}
	resize := func(vp *viewport.Model) {
		if vp.Width == 0 && vp.Height == 0 {
			*vp = viewport.New(w, h)
			return
		}
		vp.Width, vp.Height = w, h
	}
	resize(&m.output)
	resize(&m.assistant)
	resize(&m.chatView)
	m.chatInput.Width = w - 4
	m.promptInput.Width = w - 4
}

func (m *Model) scrollToCursor() {
	d := m.tabs.Active()
	if d == nil {
		return
	}
	rows := m.editorRows()
	cur := d.Cursor()
	if cur.Row < m.topRow {
		m.topRow = cur.Row
	}
	if cur.Row >= m.topRow+rows {
		m.topRow = cur.Row - rows + 1
	}
	if m.topRow < 0 {
		m.topRow = 0
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.viewTabBar())
	b.WriteByte('\n')
	b.WriteString(m.viewEditor())
	if m.pane != paneNone {
		b.WriteByte('\n')
		b.WriteString(m.viewPane())
	}
	if m.prompt != promptNone {
		b.WriteByte('\n')
		b.WriteString(m.viewPrompt())
	} else if m.pane == paneChat {
		b.WriteByte('\n')
		b.WriteString(m.chatInput.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.viewStatusBar())
	return b.String()
}

func (m Model) viewTabBar() string {
	var parts []string
	active := m.tabs.ActiveIndex()
	for i, d := range m.tabs.Documents() {
		title := d.Title()
		if d.Modified() {
			title += " •"
		}
		if i == active {
			parts = append(parts, m.styles.TabActive.Render(title))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(title))
		}
	}
	return strings.Join(parts, "")
}

func (m Model) viewEditor() string {
	d := m.tabs.Active()
	if d == nil {
		return ""
	}
	rows := m.editorRows()
	spans := highlight.Scan(d.Text())
	syntax := highlight.DefaultStyles()

	gutterWidth := len(strconv.Itoa(d.LineCount()))
	cur := d.Cursor()

	var sel document.Range
	hasSel := false
	if r, ok := d.Selection(); ok {
		sel, hasSel = document.NormalizeRange(r), true
	}
	ghost, hasGhost := m.activeGhost()
	ghostPos := document.Pos{}
	if hasGhost {
		ghostPos = d.PosAt(ghost.Offset)
	}

	var b strings.Builder
	for i := 0; i < rows; i++ {
		row := m.topRow + i
		if i > 0 {
			b.WriteByte('\n')
		}
		if row >= d.LineCount() {
			b.WriteString(m.styles.Gutter.Render(strings.Repeat(" ", gutterWidth) + " ~"))
			continue
		}

		num := strconv.Itoa(row + 1)
		pad := strings.Repeat(" ", gutterWidth-len(num))
		if row == cur.Row {
			b.WriteString(m.styles.LineNumActive.Render(pad + num + " "))
		} else {
			b.WriteString(m.styles.Gutter.Render(pad + num + " "))
		}

		b.WriteString(m.renderLine(d, spans, syntax, row, cur, sel, hasSel, ghost, ghostPos, hasGhost))
	}
	return b.String()
}

// renderLine styles one document row: syntax colors, selection background,
// the cursor cell, and the ghost overlay on the cursor line.
func (m Model) renderLine(d *document.Document, spans []highlight.Span, syntax highlight.Styles,
	row int, cur document.Pos, sel document.Range, hasSel bool,
	ghost suggest.Ghost, ghostPos document.Pos, hasGhost bool) string {

	line := d.Line(row)
	clusters := grapheme.Split(line)
	lineStart := d.OffsetOf(document.Pos{Row: row, Col: 0})

	var b strings.Builder
	off := lineStart
	for col, cl := range clusters {
		if hasGhost && row == ghostPos.Row && col == ghostPos.Col {
			b.WriteString(m.renderGhost(ghost.Text))
		}

		style := m.styles.Text
		if cat, ok := highlight.CategoryAt(spans, off); ok {
			style = syntax.For(cat)
		}
		pos := document.Pos{Row: row, Col: col}
		if hasSel && document.ComparePos(sel.Start, pos) <= 0 && document.ComparePos(pos, sel.End) < 0 {
			style = style.Inherit(m.styles.Selection)
		}
		if row == cur.Row && col == cur.Col {
			style = m.styles.Cursor
		}
		b.WriteString(style.Render(cl))
		off += utf8.RuneCountInString(cl)
	}

	// Cursor or ghost anchored past the last cluster.
	endCol := len(clusters)
	if hasGhost && row == ghostPos.Row && ghostPos.Col >= endCol {
		b.WriteString(m.renderGhost(ghost.Text))
	}
	if row == cur.Row && cur.Col >= endCol && !(hasGhost && ghostPos.Row == row) {
		b.WriteString(m.styles.Cursor.Render(" "))
	}
	return b.String()
}

// renderGhost shows the suggestion's first line inline; the full text is
// still committed on accept.
func (m Model) renderGhost(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "…"
	}
	return m.styles.Ghost.Render(text)
}

func (m Model) viewPane() string {
	var title string
	var body string
	switch m.pane {
	case paneOutput:
		title = "Output"
		if m.running {
			title = "Output (running, ctrl+r to stop)"
		}
		body = m.output.View()
	case paneAssistant:
		title = m.assistantTitle
		if title == "" {
			title = "Assistant"
		}
		body = m.assistant.View()
	case paneChat:
		title = "Chat"
		body = m.chatView.View()
	}
	if m.busy {
		title += " " + m.spin.View()
	}
	return m.styles.PaneTitle.Render(title) + "\n" + body
}

func (m Model) viewPrompt() string {
	if m.prompt == promptCloseTab {
		return m.styles.Prompt.Render(m.promptInput.Prompt)
	}
	return m.promptInput.View()
}

func (m Model) viewStatusBar() string {
	d := m.tabs.Active()
	var left string
	if d != nil {
		left = d.Title()
		if d.Modified() {
			left += " [+]"
		}
		left += "  " + m.cursorStatus() + "  " + d.Language()
	}
	right := m.status
	if right == "" && m.ghost.State() != suggest.StateIdle {
		right = m.ghost.State().String()
	}
	if right != "" {
		left += "  |  " + m.styles.Status.Render(right)
	}
	bar := m.styles.StatusBar.Render(" " + left + " ")
	return bar
}

func wrapToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
