package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
)

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case ModePlayer:
		return m.viewPlayer()
	default:
		return m.viewBrowser()
	}
}

// viewBrowser draws the navigator: items ascending from the third row
// from the bottom, a separator carrying the match count, and the query
// line with its cursor at the very bottom.
func (m *Model) viewBrowser() string {
	w, h := m.width, m.height
	if h <= 0 {
		return ""
	}
	lines := make([]string, h)

	if h > 3 {
		startRow := h - 3
		visible := m.nav.Matches() - m.nav.Offset()
		if visible > h-2 {
			visible = h - 2
		}
		rows := m.nav.Rows()
		for y := 0; y < visible; y++ {
			idx := y + m.nav.Offset()
			if idx < 0 || idx >= len(rows) {
				break
			}
			row := startRow - y
			if row < 0 {
				break
			}
			if rows[idx].Weight == 0 {
				continue
			}
			lines[row] = m.itemLine(idx)
		}

		page, pages := m.nav.PageIndicator()
		indicator := styles.PageIndicator.Render(fmt.Sprintf(" %d/%d", page, pages))
		lines[0] = overlayRight(lines[0], indicator, w)
	}

	if h > 1 {
		count := fmt.Sprintf("%d/%d ", m.nav.Matches(), m.nav.Len())
		sep := "  " + styles.MatchCount.Render(count)
		if fill := w - 2 - runewidth.StringWidth(count); fill > 0 {
			sep += styles.Separator.Render(strings.Repeat("─", fill))
		}
		if msg := m.statusMessage(); msg != "" {
			sep = msg
		}
		lines[h-2] = sep
		lines[h-1] = m.queryLine()
	} else {
		lines[h-1] = m.queryLine()
	}

	for i, line := range lines {
		if lipgloss.Width(line) > w && w > 0 {
			lines[i] = truncate.StringWithTail(line, uint(w), "…")
		}
	}
	return strings.Join(lines, "\n")
}

// itemLine renders one candidate row with its fuzzy-matched characters
// highlighted.
func (m *Model) itemLine(idx int) string {
	rows := m.nav.Rows()
	row := rows[idx]
	selected := idx == m.nav.Selected()

	indicator := "  "
	labelStyle := styles.Item
	matchStyle := styles.MatchedChar
	if selected {
		indicator = styles.ItemIndicator.Render(">") + " "
		labelStyle = styles.SelectedItem
		matchStyle = styles.SelectedMatch
	}

	matched := make(map[int]struct{}, len(row.Indexes))
	for _, i := range row.Indexes {
		matched[i] = struct{}{}
	}

	var b strings.Builder
	b.WriteString(indicator)
	for i, r := range []rune(row.Entry.Display) {
		if _, ok := matched[i]; ok {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(labelStyle.Render(string(r)))
		}
	}
	return b.String()
}

// queryLine renders the input prompt, the query and the cursor. The
// cursor sits on the grapheme cluster at the edit position, or on a
// trailing placeholder cell at the end of the text.
func (m *Model) queryLine() string {
	prompt := styles.FilterPrompt.Render("> ")
	query := m.nav.Query()
	pos := m.nav.Cursor()

	if query == "" {
		return prompt + m.renderFilterCursor(" ") + styles.FilterPlaceholder.Render(" type to filter")
	}

	before := query[:pos]
	caret := " "
	after := ""
	if pos < len(query) {
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(query[pos:], -1)
		caret = cluster
		after = rest
	}
	return prompt +
		styles.Filter.Render(before) +
		m.renderFilterCursor(caret) +
		styles.Filter.Render(after)
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}
	return base.Reverse(true).Render(char)
}

// statusMessage surfaces a transient notice or error on the separator row.
func (m *Model) statusMessage() string {
	if m.errMsg != "" {
		return styles.Error.Render("  " + m.errMsg)
	}
	if info := m.currentInfo(); info != "" {
		return styles.Info.Render("  " + info)
	}
	return ""
}

// viewPlayer draws the playback session: the plain track listing with the
// current track marked, plus a status row of the global shortcuts.
func (m *Model) viewPlayer() string {
	w, h := m.width, m.height
	if h <= 0 || m.session == nil {
		return ""
	}
	lines := make([]string, 0, h)
	title := filepath.Base(m.session.Path)
	lines = append(lines, styles.PlayerStatus.Render("Playing ")+styles.TrackCurrent.Render(title))
	lines = append(lines, "")

	current := m.session.Index()
	listRows := h - 4
	if listRows < 1 {
		listRows = 1
	}
	start := 0
	if current >= listRows {
		start = current - listRows + 1
	}
	end := start + listRows
	if end > len(m.session.Tracks) {
		end = len(m.session.Tracks)
	}
	for i := start; i < end; i++ {
		marker := "  "
		style := styles.TrackTitle
		if i == current {
			marker = styles.ItemIndicator.Render("▶") + " "
			style = styles.TrackCurrent
		}
		lines = append(lines, marker+style.Render(m.session.Tracks[i].Title))
	}

	for len(lines) < h-1 {
		lines = append(lines, "")
	}
	lines = lines[:h-1]

	state := "paused"
	if m.session.Playing() {
		state = "playing"
	}
	statusLine := styles.PlayerStatus.Render(fmt.Sprintf(
		"[%s %d/%d]  space pause  n/p track  tab browse  - previous  r random  q quit",
		state, current+1, len(m.session.Tracks)))
	if msg := m.statusMessage(); msg != "" {
		statusLine = msg
	}
	lines = append(lines, statusLine)

	for i, line := range lines {
		if lipgloss.Width(line) > w && w > 0 {
			lines[i] = truncate.StringWithTail(line, uint(w), "…")
		}
	}
	return strings.Join(lines, "\n")
}

// overlayRight right-aligns overlay on top of line within width columns.
func overlayRight(line, overlay string, width int) string {
	if width <= 0 {
		return line
	}
	ow := lipgloss.Width(overlay)
	lw := lipgloss.Width(line)
	if ow >= width {
		return overlay
	}
	if lw > width-ow {
		line = truncate.StringWithTail(line, uint(width-ow), "…")
		lw = lipgloss.Width(line)
	}
	return line + strings.Repeat(" ", width-ow-lw) + overlay
}
