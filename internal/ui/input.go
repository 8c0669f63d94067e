package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/logging"
	"github.com/strumapp/strum/internal/logging/events"
)

// command is the closed set of navigator operations; every key and
// pointer gesture maps onto exactly one of these before execution.
type command int

const (
	cmdNone command = iota
	cmdInsert
	cmdCommit
	cmdCancel
	cmdMoveUp
	cmdMoveDown
	cmdPageUp
	cmdPageDown
	cmdRandomPage
	cmdBackspace
	cmdDelete
	cmdCursorLeft
	cmdCursorRight
	cmdCursorHome
	cmdCursorEnd
	cmdClearQuery
	cmdParent
	cmdOpenExternal
	cmdQuit
)

// browseCommandFor translates a key press into a navigator command. Plain
// runes insert into the query; everything else is a control gesture.
func browseCommandFor(msg tea.KeyMsg) (command, string) {
	switch msg.String() {
	case "ctrl+c":
		return cmdQuit, ""
	case "ctrl+u":
		return cmdClearQuery, ""
	case "ctrl+p":
		return cmdParent, ""
	case "ctrl+o":
		return cmdOpenExternal, ""
	case "ctrl+h":
		return cmdPageUp, ""
	case "ctrl+l":
		return cmdPageDown, ""
	case "ctrl+z":
		return cmdRandomPage, ""
	}
	switch msg.Type {
	case tea.KeyEnter:
		return cmdCommit, ""
	case tea.KeyEscape:
		return cmdCancel, ""
	case tea.KeyUp:
		return cmdMoveUp, ""
	case tea.KeyDown:
		return cmdMoveDown, ""
	case tea.KeyPgUp:
		return cmdPageUp, ""
	case tea.KeyPgDown:
		return cmdPageDown, ""
	case tea.KeyBackspace:
		return cmdBackspace, ""
	case tea.KeyDelete:
		return cmdDelete, ""
	case tea.KeyLeft:
		return cmdCursorLeft, ""
	case tea.KeyRight:
		return cmdCursorRight, ""
	case tea.KeyHome:
		return cmdCursorHome, ""
	case tea.KeyEnd:
		return cmdCursorEnd, ""
	case tea.KeySpace:
		return cmdInsert, " "
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return cmdNone, ""
		}
		return cmdInsert, string(msg.Runes)
	}
	return cmdNone, ""
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModeBrowse:
		return m.handleBrowseKey(keyMsg)
	case ModePlayer:
		return m.handlePlayerKey(keyMsg)
	}
	return nil
}

// handleBrowseKey executes exactly one navigator command per key event.
func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	cmd, text := browseCommandFor(msg)
	switch cmd {
	case cmdNone:
		return nil
	case cmdQuit:
		return tea.Quit
	case cmdCommit:
		return m.commitSelection()
	case cmdCancel:
		return m.cancel()
	case cmdMoveUp:
		m.nav.MoveUp()
		events.Browser.Cursor(m.nav.Selected(), m.nav.Offset())
	case cmdMoveDown:
		m.nav.MoveDown()
		events.Browser.Cursor(m.nav.Selected(), m.nav.Offset())
	case cmdPageUp:
		m.nav.PageUp()
	case cmdPageDown:
		m.nav.PageDown()
	case cmdRandomPage:
		m.nav.RandomPage()
		events.Browser.RandomPage(m.nav.Offset())
	case cmdInsert:
		m.nav.Insert(text)
		m.filterCursorDirty = true
		m.errMsg = ""
		m.forceClearInfo()
		events.Filter.Insert(m.nav.Query())
	case cmdBackspace:
		m.nav.Backspace()
		m.filterCursorDirty = true
		events.Filter.Delete(m.nav.Query())
	case cmdDelete:
		m.nav.Delete()
		events.Filter.Delete(m.nav.Query())
	case cmdCursorLeft:
		m.nav.MoveLeft()
		m.filterCursorDirty = true
		events.Filter.Cursor(m.nav.Cursor())
	case cmdCursorRight:
		m.nav.MoveRight()
		m.filterCursorDirty = true
		events.Filter.Cursor(m.nav.Cursor())
	case cmdCursorHome:
		m.nav.Home()
		m.filterCursorDirty = true
		events.Filter.Cursor(m.nav.Cursor())
	case cmdCursorEnd:
		m.nav.End()
		m.filterCursorDirty = true
		events.Filter.Cursor(m.nav.Cursor())
	case cmdClearQuery:
		m.nav.Clear()
		m.filterCursorDirty = true
		events.Filter.Cleared()
	case cmdParent:
		if entries, dir, ok := m.nav.Ascend(m.source); ok {
			nav := browser.New(entries, m.nav.Root(), m.scorer)
			nav.SetSize(m.width, m.height)
			m.nav = nav
			events.Browser.Parent(dir)
		}
	case cmdOpenExternal:
		if entry, ok := m.nav.SelectedEntry(); ok {
			if err := m.opener.Open(entry.Path); err != nil {
				// Launches are fire-and-forget; log and move on.
				logging.Error(err)
			}
			if m.verbose {
				m.setInfo("Opened " + entry.Display)
			}
		}
	}
	return nil
}

// handlePlayerKey serves the playback view: session controls plus the
// global shortcuts for browsing, previous and random activation.
func (m *Model) handlePlayerKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "tab":
		if err := m.openBrowser(m.root); err != nil {
			m.errMsg = err.Error()
		}
	case "-":
		m.previousSession()
	case "r":
		m.randomSession()
	case " ":
		if m.session != nil {
			m.session.Toggle()
		}
	case "n", "right":
		if m.session != nil {
			if err := m.session.Next(); err != nil {
				m.errMsg = err.Error()
			}
		}
	case "p", "left":
		if m.session != nil {
			if err := m.session.Prev(); err != nil {
				m.errMsg = err.Error()
			}
		}
	}
	return nil
}

// handleMouseMsg maps pointer events onto the navigator. The contract
// counts viewport rows from 1 at the row above the bottom boundary, so
// the zero-based terminal row shifts by one.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouseMsg, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if mouseMsg.Action != tea.MouseActionPress {
		return nil
	}
	if m.mode != ModeBrowse {
		return nil
	}
	switch mouseMsg.Button {
	case tea.MouseButtonRight:
		return m.cancel()
	case tea.MouseButtonWheelUp:
		m.nav.MoveUp()
	case tea.MouseButtonWheelDown:
		m.nav.MoveDown()
	case tea.MouseButtonLeft:
		if m.nav.Pointer(mouseMsg.Y+1) == browser.PointerActivate {
			return m.commitSelection()
		}
	}
	return nil
}
