// Package history tracks the two most recent activations so "previous"
// works without re-browsing. It is a plain value owned by the controller
// and injected where needed.
package history

const capacity = 2

// History is an ordered list of at most two activated paths: index 0 is
// the previous activation, the last element the current one.
type History struct {
	paths []string
}

// New returns an empty history.
func New() *History {
	return &History{paths: make([]string, 0, capacity)}
}

// Push records an activation, evicting the oldest entry once the capacity
// is exceeded. The first activation is seeded twice so Previous is valid
// as soon as anything has been activated.
func (h *History) Push(path string) {
	if len(h.paths) == 0 {
		h.paths = append(h.paths, path)
	}
	h.paths = append(h.paths, path)
	if len(h.paths) > capacity {
		h.paths = h.paths[len(h.paths)-capacity:]
	}
}

// Previous returns the older of the two tracked paths. Only valid after at
// least one Push; callers treat a rebuild failure from this path as a
// broken invariant, not a user error.
func (h *History) Previous() string {
	return h.paths[0]
}

// Current returns the most recent activation, or "" when nothing has been
// activated yet.
func (h *History) Current() string {
	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}

// Empty reports whether any activation has been recorded.
func (h *History) Empty() bool {
	return len(h.paths) == 0
}
