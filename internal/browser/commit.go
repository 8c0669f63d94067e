package browser

import "github.com/strumapp/strum/internal/catalog"

// CommitKind classifies the outcome of committing the current selection.
type CommitKind int

const (
	// CommitNothing leaves the view unchanged; Err or the "nothing to
	// select" notice explains why.
	CommitNothing CommitKind = iota
	// CommitPlay activates a leaf into a playback session.
	CommitPlay
	// CommitDescend replaces the view with a navigator over Entries.
	CommitDescend
)

// Commit is the decision produced by committing a selection.
type Commit struct {
	Kind    CommitKind
	Path    string
	Dir     string
	Entries []catalog.Entry
	Err     error
}

// CommitSelection inspects the selected item. Leaves activate directly.
// Directories rebuild the view over their child catalog, except when that
// catalog holds exactly one playable childless entry, which activates
// without the intermediate single-item listing.
func (n *Navigator) CommitSelection(src catalog.Source) Commit {
	entry, ok := n.SelectedEntry()
	if !ok {
		return Commit{Kind: CommitNothing}
	}
	if entry.Leaf() {
		return Commit{Kind: CommitPlay, Path: entry.Path}
	}
	children, err := src.Build(entry.Path)
	if err != nil {
		return Commit{Kind: CommitNothing, Err: err}
	}
	if len(children) == 1 {
		only := children[0]
		if only.HasAudio && only.Leaf() {
			return Commit{Kind: CommitPlay, Path: only.Path}
		}
	}
	return Commit{Kind: CommitDescend, Dir: entry.Path, Entries: children}
}

// Ascend builds the candidate list for the parent directory. A false
// result or a build failure leaves the current view in place.
func (n *Navigator) Ascend(src catalog.Source) ([]catalog.Entry, string, bool) {
	dir, ok := n.ParentDir()
	if !ok {
		return nil, "", false
	}
	entries, err := src.Build(dir)
	if err != nil {
		return nil, "", false
	}
	return entries, dir, true
}
