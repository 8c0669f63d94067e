// Package browser owns one browsing session's mutable state: the query
// text and its cursor, the filtered and ranked view over a candidate
// catalog, the scroll offset and the selection. Indices count from the
// bottom of the screen: index 0 sits closest to the input line and
// higher indices move upward.
package browser

import (
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/rivo/uniseg"

	"github.com/strumapp/strum/internal/catalog"
	"github.com/strumapp/strum/internal/fuzzy"
)

// Row pairs an immutable catalog entry with its mutable relevance state.
// Weight 0 excludes the row from the current view; Indexes are the rune
// offsets matched by the scorer, meaningful only while Weight != 0.
type Row struct {
	Entry   catalog.Entry
	Weight  int
	Indexes []int
}

// Navigator is the interactive fuzzy-filtering list state.
type Navigator struct {
	root   string
	scorer fuzzy.Scorer
	rows   []Row

	query    string
	cursor   int // byte offset, always on a grapheme boundary
	selected int
	offset   int
	matches  int

	width         int
	height        int
	availableRows int

	randInt func(n int) int
}

// New builds a fresh navigator over a catalog. Every row starts with a
// uniform weight of 1 so the catalog order is the initial view.
func New(entries []catalog.Entry, root string, scorer fuzzy.Scorer) *Navigator {
	rows := make([]Row, len(entries))
	for i, entry := range entries {
		rows[i] = Row{Entry: entry, Weight: 1}
	}
	return &Navigator{
		root:    root,
		scorer:  scorer,
		rows:    rows,
		matches: len(rows),
		randInt: rand.Intn,
	}
}

// SetSize records the viewport and derives the visible list height. Three
// rows stay reserved for the input line, the separator/match-count line
// and one boundary line.
func (n *Navigator) SetSize(width, height int) {
	n.width = width
	n.height = height
	if height > 2 {
		n.availableRows = height - 3
	} else {
		n.availableRows = 0
	}
}

func (n *Navigator) Query() string      { return n.query }
func (n *Navigator) Cursor() int        { return n.cursor }
func (n *Navigator) Selected() int      { return n.selected }
func (n *Navigator) Offset() int        { return n.offset }
func (n *Navigator) Matches() int       { return n.matches }
func (n *Navigator) Len() int           { return len(n.rows) }
func (n *Navigator) AvailableRows() int { return n.availableRows }
func (n *Navigator) Width() int         { return n.width }

// Rows exposes the current ranked view for rendering.
func (n *Navigator) Rows() []Row { return n.rows }

// SelectedEntry returns the entry under the selection cursor when the
// selection addresses a matched row.
func (n *Navigator) SelectedEntry() (catalog.Entry, bool) {
	if n.matches == 0 || n.selected < 0 || n.selected >= len(n.rows) {
		return catalog.Entry{}, false
	}
	row := n.rows[n.selected]
	if row.Weight == 0 {
		return catalog.Entry{}, false
	}
	return row.Entry, true
}

// MoveDown moves the selection one row toward the input line.
func (n *Navigator) MoveDown() {
	if n.selected == 0 {
		return
	}
	if n.selected == n.offset {
		n.offset--
	}
	n.selected--
}

// MoveUp moves the selection one row away from the input line.
func (n *Navigator) MoveUp() {
	if n.selected == n.matches-1 {
		return
	}
	if n.selected-n.offset >= n.availableRows {
		n.offset++
	}
	n.selected++
}

// PageUp jumps one page toward higher indices, clamping at the top.
func (n *Navigator) PageUp() {
	if n.matches == 0 {
		return
	}
	if n.selected+n.availableRows <= n.matches-1 {
		n.offset += n.availableRows
		n.selected += n.availableRows
	} else {
		n.selected = n.matches - 1
		if n.offset+n.availableRows < n.selected {
			n.offset += n.availableRows
		}
	}
}

// PageDown jumps one page toward index 0, flooring at the bottom.
func (n *Navigator) PageDown() {
	if n.matches == 0 {
		return
	}
	if n.selected > n.availableRows {
		n.selected -= n.availableRows
	} else {
		n.selected = 0
	}
	if n.offset > n.availableRows {
		n.offset -= n.availableRows
	} else {
		n.offset = 0
	}
}

// RandomPage clears the query and jumps selection and offset to the start
// of a uniformly random page other than the current one. A no-op when the
// whole catalog already fits on one page.
func (n *Navigator) RandomPage() {
	if n.availableRows == 0 || len(n.rows) <= n.availableRows {
		return
	}
	pages := len(n.rows)/n.availableRows + 1
	for {
		y := n.randInt(pages) * n.availableRows
		if y == n.offset {
			continue
		}
		n.Clear()
		n.offset = y
		n.selected = y
		return
	}
}

// PointerAction classifies the effect of a pointer press.
type PointerAction int

const (
	// PointerNone consumes the event with no state change.
	PointerNone PointerAction = iota
	// PointerSelect moved the selection to the pressed row.
	PointerSelect
	// PointerActivate hit the already-selected row.
	PointerActivate
)

// Pointer maps a press at viewport row mouseY onto the list. Rows outside
// the list region are consumed without effect; pressing the selected row
// activates it, any other in-range row becomes the new selection with the
// offset untouched.
func (n *Navigator) Pointer(mouseY int) PointerAction {
	if mouseY < 1 || mouseY > n.availableRows+1 {
		return PointerNone
	}
	target := n.availableRows + 1 + n.offset - mouseY
	if target == n.selected {
		return PointerActivate
	}
	n.selected = target
	return PointerSelect
}

// MoveLeft moves the query cursor one grapheme cluster left.
func (n *Navigator) MoveLeft() {
	if n.cursor > 0 {
		n.cursor = prevBoundary(n.query, n.cursor)
	}
}

// MoveRight moves the query cursor one grapheme cluster right.
func (n *Navigator) MoveRight() {
	if n.cursor < len(n.query) {
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(n.query[n.cursor:], -1)
		n.cursor += len(cluster)
	}
}

// Home moves the query cursor to the start of the query.
func (n *Navigator) Home() { n.cursor = 0 }

// End moves the query cursor past the last cluster.
func (n *Navigator) End() { n.cursor = len(n.query) }

// Insert places text at the cursor and advances the cursor by its encoded
// width, then re-filters.
func (n *Navigator) Insert(text string) {
	if text == "" {
		return
	}
	n.query = n.query[:n.cursor] + text + n.query[n.cursor:]
	n.cursor += len(text)
	n.updateList()
}

// Backspace deletes the cluster left of the cursor: move left, delete right.
func (n *Navigator) Backspace() {
	if n.cursor > 0 {
		n.MoveLeft()
		n.Delete()
	}
}

// Delete removes the cluster at the cursor. At the end of the text it
// still re-evaluates matches without changing the query.
func (n *Navigator) Delete() {
	if n.cursor == len(n.query) {
		n.updateList()
		return
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(n.query[n.cursor:], -1)
	n.query = n.query[:n.cursor] + n.query[n.cursor+len(cluster):]
	n.updateList()
}

// Clear drops the whole query and restores the unfiltered view.
func (n *Navigator) Clear() {
	n.query = ""
	n.cursor = 0
	n.updateList()
}

// updateList recomputes every row's (weight, indexes) from the current
// query. With no query every row gets a uniform weight of 1 and the
// current order is kept; otherwise rows are stable-sorted by weight
// descending so equal weights retain their relative order.
func (n *Navigator) updateList() {
	if n.query == "" {
		for i := range n.rows {
			n.rows[i].Weight = 1
			n.rows[i].Indexes = nil
		}
		n.matches = len(n.rows)
		n.selected = 0
		n.offset = 0
		return
	}

	count := 0
	for i := range n.rows {
		match, ok := n.scorer.Score(n.rows[i].Entry.Display, n.query)
		if ok {
			n.rows[i].Weight = match.Weight
			n.rows[i].Indexes = match.Indexes
			count++
		} else {
			n.rows[i].Weight = 0
			n.rows[i].Indexes = nil
		}
	}
	n.matches = count
	sort.SliceStable(n.rows, func(i, j int) bool {
		return n.rows[i].Weight > n.rows[j].Weight
	})
	n.selected = 0
	n.offset = 0
}

// PageIndicator returns an approximate "page of pages" position hint for
// the current selection within the filtered list.
func (n *Navigator) PageIndicator() (page, pages int) {
	if n.availableRows == 0 {
		return 0, 0
	}
	return n.selected / n.availableRows, n.matches / n.availableRows
}

// ParentDir derives the directory one level above the one this catalog
// was built from: the first row's leaf name is removed to reach the
// catalog directory, then one more segment unless that directory is the
// configured search root.
func (n *Navigator) ParentDir() (string, bool) {
	if len(n.rows) == 0 {
		return "", false
	}
	dir := filepath.Dir(n.rows[0].Entry.Path)
	if dir != n.root {
		dir = filepath.Dir(dir)
	}
	return dir, true
}

// Root reports the configured search root the navigator was built under.
func (n *Navigator) Root() string { return n.root }

// prevBoundary returns the byte offset of the grapheme cluster boundary
// immediately before pos.
func prevBoundary(s string, pos int) int {
	prev := 0
	rest := s
	state := -1
	offset := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := offset + len(cluster)
		if next >= pos {
			return offset
		}
		prev = next
		offset = next
	}
	return prev
}
