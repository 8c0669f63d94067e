// Package catalog enumerates browsable directory entries for the fuzzy
// navigator. An Entry is either a directory (ChildCount counts its child
// directories) or an audio file (ChildCount == 0, HasAudio == true); an
// entry with ChildCount == 0 is a leaf that can be activated into a
// playback session.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one browsable candidate. Display, Path, HasAudio and ChildCount
// are immutable once built; relevance state lives in the navigator.
type Entry struct {
	Display    string
	Path       string
	HasAudio   bool
	ChildCount int
}

// Leaf reports whether the entry has no child directories and can be
// activated directly.
func (e Entry) Leaf() bool {
	return e.ChildCount == 0
}

// Source builds ordered candidate lists for a directory.
type Source interface {
	Build(path string) ([]Entry, error)
}

// FS is the filesystem-backed Source.
type FS struct{}

var audioExtensions = map[string]struct{}{
	".wav":  {},
	".flac": {},
	".mp3":  {},
	".ogg":  {},
}

// IsAudioPath reports whether the path carries a playable audio extension.
func IsAudioPath(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Build returns one entry per child directory and one per audio file
// directly inside dir, in name order.
func (FS) Build(dir string) ([]Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if child.IsDir() {
			childDirs, hasAudio := probeDir(path)
			entries = append(entries, Entry{
				Display:    name,
				Path:       path,
				HasAudio:   hasAudio,
				ChildCount: childDirs,
			})
			continue
		}
		if IsAudioPath(name) {
			entries = append(entries, Entry{
				Display:  name,
				Path:     path,
				HasAudio: true,
			})
		}
	}
	return entries, nil
}

// probeDir counts child directories and checks for directly contained audio.
func probeDir(dir string) (childDirs int, hasAudio bool) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return 0, false
	}
	for _, child := range children {
		if strings.HasPrefix(child.Name(), ".") {
			continue
		}
		if child.IsDir() {
			childDirs++
		} else if IsAudioPath(child.Name()) {
			hasAudio = true
		}
	}
	return childDirs, hasAudio
}

// DirCount reports the number of directories beneath root. Computed once
// per session; the random sampler draws indices against it.
func DirCount(root string) int {
	count := 0
	walkDirs(root, func(string) bool {
		count++
		return true
	})
	return count
}

// DirAt resolves the index-th directory beneath root in lexical walk
// order. Returns an error when the index falls outside the tree.
func DirAt(root string, index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("directory index %d out of range", index)
	}
	found := ""
	i := 0
	walkDirs(root, func(path string) bool {
		if i == index {
			found = path
			return false
		}
		i++
		return true
	})
	if found == "" {
		return "", fmt.Errorf("directory index %d out of range", index)
	}
	return found, nil
}

// walkDirs visits every directory beneath root (excluding root itself) in
// lexical order, stopping early when fn returns false.
func walkDirs(root string, fn func(path string) bool) {
	stop := fmt.Errorf("stop")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !fn(path) {
			return stop
		}
		return nil
	})
}

// SortByName orders entries lexically by display label. ReadDir already
// yields sorted names; this exists for sources that merge listings.
func SortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Display < entries[j].Display
	})
}
