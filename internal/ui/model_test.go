package ui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/catalog"
	"github.com/strumapp/strum/internal/fuzzy"
	"github.com/strumapp/strum/internal/player"
)

// stubSource serves canned catalogs keyed by path.
type stubSource struct {
	entries map[string][]catalog.Entry
}

func (s stubSource) Build(path string) ([]catalog.Entry, error) {
	entries, ok := s.entries[path]
	if !ok {
		return nil, fmt.Errorf("no catalog for %q", path)
	}
	return entries, nil
}

// stubFactory builds sessions without touching the speaker. The session's
// single track points at a path that cannot decode, so playback errors are
// reported but activation still commits.
type stubFactory struct {
	built *[]string
	fail  map[string]bool
}

func (f stubFactory) Build(path string) (*player.Session, player.Size, error) {
	if f.fail[path] {
		return nil, player.Size{}, errors.New("construction failed")
	}
	if f.built != nil {
		*f.built = append(*f.built, path)
	}
	session := &player.Session{
		Path:   path,
		Tracks: []player.Track{{Title: "track", Path: path + "/missing.mp3"}},
	}
	return session, player.Size{Width: 53, Height: 3}, nil
}

type stubOpener struct {
	opened *[]string
}

func (o stubOpener) Open(path string) error {
	if o.opened != nil {
		*o.opened = append(*o.opened, path)
	}
	return nil
}

func leafEntry(dir, name string) catalog.Entry {
	return catalog.Entry{Display: name, Path: dir + "/" + name, HasAudio: true}
}

func dirEntry(dir, name string, children int) catalog.Entry {
	return catalog.Entry{Display: name, Path: dir + "/" + name, ChildCount: children}
}

func newTestModel(t *testing.T, source stubSource, factory stubFactory) *Model {
	t.Helper()
	m, err := NewModel(Options{
		Root:    "/music",
		Width:   80,
		Height:  24,
		Source:  source,
		Scorer:  fuzzy.Ranker{},
		Factory: factory,
		Opener:  stubOpener{},
		Sampler: browser.NewSampler(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestNewModelFailsOnUnreadableRoot(t *testing.T) {
	_, err := NewModel(Options{
		Root:   "/music",
		Source: stubSource{},
		Scorer: fuzzy.Ranker{},
	})
	if err == nil {
		t.Fatal("expected an error for an unreadable root catalog")
	}
}

func TestCommitLeafActivates(t *testing.T) {
	var built []string
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{built: &built})

	m.handleBrowseKey(keyMsg(tea.KeyEnter))

	if m.mode != ModePlayer {
		t.Fatalf("expected player mode, got %v", m.mode)
	}
	if len(built) != 1 || built[0] != "/music/track.mp3" {
		t.Fatalf("expected the leaf built, got %v", built)
	}
	if m.hist.Current() != "/music/track.mp3" {
		t.Fatalf("expected activation recorded, got %q", m.hist.Current())
	}
}

func TestCommitDescendsIntoDirectory(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {dirEntry("/music", "rock", 2)},
		"/music/rock": {
			dirEntry("/music/rock", "zeppelin", 0),
			dirEntry("/music/rock", "floyd", 0),
		},
	}}
	m := newTestModel(t, source, stubFactory{})
	old := m.nav

	m.handleBrowseKey(keyMsg(tea.KeyEnter))

	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode, got %v", m.mode)
	}
	if m.nav == old {
		t.Fatal("expected a fresh navigator over the child catalog")
	}
	if m.nav.Len() != 2 || m.nav.Query() != "" {
		t.Fatalf("expected 2 fresh entries with an empty query, got %d %q", m.nav.Len(), m.nav.Query())
	}
}

func TestCommitAutoDescendsSingletonPlayableChild(t *testing.T) {
	var built []string
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music":        {dirEntry("/music", "single", 1)},
		"/music/single": {{Display: "album", Path: "/music/single/album", HasAudio: true}},
	}}
	m := newTestModel(t, source, stubFactory{built: &built})

	m.handleBrowseKey(keyMsg(tea.KeyEnter))

	if m.mode != ModePlayer {
		t.Fatalf("expected the singleton child activated directly, got mode %v", m.mode)
	}
	if m.hist.Current() != "/music/single/album" {
		t.Fatalf("expected the child path in history, got %q", m.hist.Current())
	}
	if len(built) != 1 || built[0] != "/music/single/album" {
		t.Fatalf("expected only the child built, got %v", built)
	}
}

func TestCommitFailureLeavesViewUntouched(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {dirEntry("/music", "gone", 1)},
	}}
	m := newTestModel(t, source, stubFactory{})
	old := m.nav

	m.handleBrowseKey(keyMsg(tea.KeyEnter))

	if m.mode != ModeBrowse || m.nav != old {
		t.Fatal("expected the failed transition to leave the current view in place")
	}
	if m.errMsg == "" {
		t.Fatal("expected the failure surfaced as an error message")
	}
}

func TestCommitWithNothingSelectedShowsNotice(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{})

	// Filter down to zero matches, then commit.
	m.nav.Insert("zzz")
	m.handleBrowseKey(keyMsg(tea.KeyEnter))

	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode, got %v", m.mode)
	}
	if m.currentInfo() != "Nothing to select!" {
		t.Fatalf("expected the transient notice, got %q", m.currentInfo())
	}
}

func TestCancelBeforeFirstActivationQuits(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{})

	cmd := m.handleBrowseKey(keyMsg(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestCancelAfterActivationPopsToPlayer(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{})

	m.handleBrowseKey(keyMsg(tea.KeyEnter))
	if err := m.openBrowser("/music"); err != nil {
		t.Fatal(err)
	}
	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode after reopening, got %v", m.mode)
	}

	cmd := m.handleBrowseKey(keyMsg(tea.KeyEscape))
	if cmd != nil {
		t.Fatal("expected no command when popping back to the player")
	}
	if m.mode != ModePlayer {
		t.Fatalf("expected player mode, got %v", m.mode)
	}
}

func TestPreviousRebuildsSeededActivation(t *testing.T) {
	var built []string
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{built: &built})

	// First activation seeds the history, so "previous" immediately
	// rebuilds the same session.
	m.handleBrowseKey(keyMsg(tea.KeyEnter))
	m.handlePlayerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})

	if len(built) != 2 || built[1] != "/music/track.mp3" {
		t.Fatalf("expected the seed rebuilt, got %v", built)
	}
	if m.hist.Previous() != "/music/track.mp3" || m.hist.Current() != "/music/track.mp3" {
		t.Fatalf("unexpected history: (%q, %q)", m.hist.Previous(), m.hist.Current())
	}
}

func TestPreviousWithEmptyHistoryIsNoop(t *testing.T) {
	var built []string
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{built: &built})

	m.previousSession()
	if len(built) != 0 {
		t.Fatalf("expected nothing built, got %v", built)
	}
}

func TestRandomSessionGivesUpSilently(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{})
	m.sampler = browser.Sampler{
		DirCount: 1,
		RandInt:  func(int) int { return 0 },
	}

	// The only directory resolves to nothing under the stub root, so
	// every attempt is rejected and the view stays put.
	m.randomSession()
	if m.mode != ModeBrowse {
		t.Fatalf("expected the view untouched, got mode %v", m.mode)
	}
	if !m.hist.Empty() {
		t.Fatal("expected no activation recorded")
	}
}

func TestMouseWheelMovesSelection(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {
			leafEntry("/music", "a.mp3"),
			leafEntry("/music", "b.mp3"),
			leafEntry("/music", "c.mp3"),
		},
	}}
	m := newTestModel(t, source, stubFactory{})

	m.handleMouseMsg(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.nav.Selected() != 1 {
		t.Fatalf("expected wheel up to move the selection, got %d", m.nav.Selected())
	}
	m.handleMouseMsg(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.nav.Selected() != 0 {
		t.Fatalf("expected wheel down to move back, got %d", m.nav.Selected())
	}

	// Motion events are ignored outright.
	m.handleMouseMsg(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonWheelUp})
	if m.nav.Selected() != 0 {
		t.Fatalf("expected motion ignored, got %d", m.nav.Selected())
	}
}

func TestExternalOpenUsesSelectedPath(t *testing.T) {
	var opened []string
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m, err := NewModel(Options{
		Root:    "/music",
		Width:   80,
		Height:  24,
		Source:  source,
		Scorer:  fuzzy.Ranker{},
		Factory: stubFactory{},
		Opener:  stubOpener{opened: &opened},
		Sampler: browser.NewSampler(0),
	})
	if err != nil {
		t.Fatal(err)
	}

	m.handleBrowseKey(tea.KeyMsg{Type: tea.KeyCtrlO})
	if len(opened) != 1 || opened[0] != "/music/track.mp3" {
		t.Fatalf("expected the selected path opened, got %v", opened)
	}
}

func TestWindowSizeRespectsFixedDimensions(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "track.mp3")},
	}}
	m, err := NewModel(Options{
		Root:    "/music",
		Width:   100,
		Source:  source,
		Scorer:  fuzzy.Ranker{},
		Factory: stubFactory{},
		Opener:  stubOpener{},
		Sampler: browser.NewSampler(0),
	})
	if err != nil {
		t.Fatal(err)
	}

	m.handleWindowSizeMsg(tea.WindowSizeMsg{Width: 42, Height: 17})
	if m.width != 100 {
		t.Fatalf("expected fixed width kept, got %d", m.width)
	}
	if m.height != 17 {
		t.Fatalf("expected height adopted from the terminal, got %d", m.height)
	}
	if m.nav.AvailableRows() != 14 {
		t.Fatalf("expected navigator resized, got %d rows", m.nav.AvailableRows())
	}
}

func TestBrowseCommandMapping(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want command
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, cmdCommit},
		{tea.KeyMsg{Type: tea.KeyEscape}, cmdCancel},
		{tea.KeyMsg{Type: tea.KeyUp}, cmdMoveUp},
		{tea.KeyMsg{Type: tea.KeyDown}, cmdMoveDown},
		{tea.KeyMsg{Type: tea.KeyPgUp}, cmdPageUp},
		{tea.KeyMsg{Type: tea.KeyPgDown}, cmdPageDown},
		{tea.KeyMsg{Type: tea.KeyCtrlH}, cmdPageUp},
		{tea.KeyMsg{Type: tea.KeyCtrlL}, cmdPageDown},
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, cmdRandomPage},
		{tea.KeyMsg{Type: tea.KeyCtrlU}, cmdClearQuery},
		{tea.KeyMsg{Type: tea.KeyCtrlP}, cmdParent},
		{tea.KeyMsg{Type: tea.KeyCtrlO}, cmdOpenExternal},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, cmdQuit},
		{tea.KeyMsg{Type: tea.KeyBackspace}, cmdBackspace},
		{tea.KeyMsg{Type: tea.KeyDelete}, cmdDelete},
		{tea.KeyMsg{Type: tea.KeyLeft}, cmdCursorLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, cmdCursorRight},
		{tea.KeyMsg{Type: tea.KeyHome}, cmdCursorHome},
		{tea.KeyMsg{Type: tea.KeyEnd}, cmdCursorEnd},
		{tea.KeyMsg{Type: tea.KeySpace}, cmdInsert},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, cmdInsert},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true}, cmdNone},
		{tea.KeyMsg{Type: tea.KeyTab}, cmdNone},
	}
	for _, tc := range cases {
		if got, _ := browseCommandFor(tc.msg); got != tc.want {
			t.Errorf("browseCommandFor(%q) = %v, want %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestRuneKeysInsertIntoQuery(t *testing.T) {
	source := stubSource{entries: map[string][]catalog.Entry{
		"/music": {leafEntry("/music", "alpha.mp3"), leafEntry("/music", "bravo.mp3")},
	}}
	m := newTestModel(t, source, stubFactory{})

	m.handleBrowseKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("al")})
	if m.nav.Query() != "al" {
		t.Fatalf("expected query %q, got %q", "al", m.nav.Query())
	}
	if m.nav.Matches() != 1 {
		t.Fatalf("expected one match, got %d", m.nav.Matches())
	}

	m.handleBrowseKey(keyMsg(tea.KeyBackspace))
	if m.nav.Query() != "a" {
		t.Fatalf("expected query %q, got %q", "a", m.nav.Query())
	}
}
