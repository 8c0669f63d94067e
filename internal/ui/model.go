package ui

import (
	"fmt"
	"path/filepath"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/catalog"
	"github.com/strumapp/strum/internal/fuzzy"
	"github.com/strumapp/strum/internal/history"
	"github.com/strumapp/strum/internal/launcher"
	"github.com/strumapp/strum/internal/logging"
	"github.com/strumapp/strum/internal/logging/events"
	"github.com/strumapp/strum/internal/player"
	"github.com/strumapp/strum/internal/theme"
)

// Mode selects the active view.
type Mode int

const (
	// ModeBrowse shows the fuzzy-filtering navigator.
	ModeBrowse Mode = iota
	// ModePlayer shows the playback session and its plain track listing.
	ModePlayer
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// tickMsg drives track auto-advance and info expiry while playing.
type tickMsg time.Time

// Model is the top-level controller: it owns the active view (navigator
// or playback session) and the shared navigation history, and mutates
// them only from the event loop.
type Model struct {
	root    string
	verbose bool

	source  catalog.Source
	scorer  fuzzy.Scorer
	factory player.Factory
	opener  launcher.Opener
	hist    *history.History
	sampler browser.Sampler

	mode    Mode
	nav     *browser.Navigator
	session *player.Session

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// Options carries the collaborators the controller consumes.
type Options struct {
	Root    string
	Width   int
	Height  int
	Verbose bool
	Source  catalog.Source
	Scorer  fuzzy.Scorer
	Factory player.Factory
	Opener  launcher.Opener
	Sampler browser.Sampler
}

// NewModel builds the controller with a fresh navigator over the search
// root. An unreadable root catalog is fatal at startup.
func NewModel(opts Options) (*Model, error) {
	entries, err := opts.Source.Build(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("build root catalog: %w", err)
	}
	events.Catalog.Built(opts.Root, len(entries))

	m := &Model{
		root:    opts.Root,
		verbose: opts.Verbose,
		source:  opts.Source,
		scorer:  opts.Scorer,
		factory: opts.Factory,
		opener:  opts.Opener,
		hist:    history.New(),
		sampler: opts.Sampler,
		mode:    ModeBrowse,
		nav:     browser.New(entries, opts.Root, opts.Scorer),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.nav.SetSize(m.width, m.height)

	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if m.nav != nil {
		m.nav.SetSize(m.width, m.height)
	}
	return nil
}

func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tickMsg); !ok {
		return nil
	}
	if m.session != nil && m.session.Finished() {
		if err := m.session.Next(); err != nil {
			events.Player.Error(err)
			logging.Error(err)
		}
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// openBrowser replaces the active navigator with a fresh one over dir.
// The old navigator is discarded outright; no state survives the rebuild.
func (m *Model) openBrowser(dir string) error {
	entries, err := m.source.Build(dir)
	if err != nil {
		events.Catalog.Error(err)
		return err
	}
	nav := browser.New(entries, m.root, m.scorer)
	nav.SetSize(m.width, m.height)
	m.nav = nav
	m.mode = ModeBrowse
	events.Browser.Open(dir, len(entries))
	return nil
}

// startSession builds a playback session for path and, on success, commits
// it: the history records the activation and the player view takes over.
// On failure the current view stays untouched.
func (m *Model) startSession(path string) error {
	session, size, err := m.factory.Build(path)
	if err != nil {
		events.Player.Error(err)
		return err
	}
	if m.session != nil {
		m.session.Stop()
	}
	m.session = session
	m.hist.Push(path)
	m.mode = ModePlayer
	m.errMsg = ""
	events.Player.Load(path, len(session.Tracks))
	if m.verbose {
		m.setInfo("Playing " + filepath.Base(path))
	}
	_ = size // sessions render within the shared viewport
	if err := session.Play(); err != nil {
		// Activation already committed; playback trouble is reported,
		// not rolled back.
		events.Player.Error(err)
		logging.Error(err)
		m.errMsg = err.Error()
	}
	return nil
}

// previousSession rebuilds the session recorded as "previous". The
// contract guarantees it was constructed before, so a failure here is a
// broken invariant, not a user error.
func (m *Model) previousSession() {
	if m.hist.Empty() {
		return
	}
	path := m.hist.Previous()
	events.Player.Previous(path)
	if err := m.startSession(path); err != nil {
		logging.Error(err)
		panic(fmt.Sprintf("previous activation %q failed to rebuild: %v", path, err))
	}
}

// randomSession draws random directories until one builds, giving up
// silently after the attempt budget.
func (m *Model) randomSession() {
	path, attempts, ok := m.sampler.Pick(m.hist.Current(), m.resolveDir, m.startSession)
	if !ok {
		events.Player.RandomExhausted(attempts)
		return
	}
	events.Player.Random(path, attempts)
}

func (m *Model) resolveDir(index int) (string, error) {
	return catalog.DirAt(m.root, index)
}

// commitSelection runs the navigator's commit decision and applies it.
func (m *Model) commitSelection() tea.Cmd {
	decision := m.nav.CommitSelection(m.source)
	switch decision.Kind {
	case browser.CommitNothing:
		if decision.Err != nil {
			events.Catalog.Error(decision.Err)
			m.errMsg = decision.Err.Error()
		} else {
			m.setInfo("Nothing to select!")
		}
		return nil
	case browser.CommitPlay:
		events.Browser.Select(decision.Path, true)
		if err := m.startSession(decision.Path); err != nil {
			m.errMsg = err.Error()
		}
		return nil
	case browser.CommitDescend:
		events.Browser.Select(decision.Dir, false)
		nav := browser.New(decision.Entries, m.root, m.scorer)
		nav.SetSize(m.width, m.height)
		m.nav = nav
		return nil
	}
	return nil
}

// cancel implements escape/right-click: quit when nothing has ever been
// activated, otherwise pop back to the playback view.
func (m *Model) cancel() tea.Cmd {
	if m.hist.Empty() {
		events.App.Quit("cancelled before first activation")
		return tea.Quit
	}
	m.mode = ModePlayer
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
