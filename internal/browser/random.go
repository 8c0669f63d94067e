package browser

import "math/rand"

// attemptBudget caps how many random draws a single jump may reject.
const attemptBudget = 10

// Sampler draws random directory leaves for the "jump to random" control.
// The directory count is estimated once per session, never re-scanned per
// attempt.
type Sampler struct {
	DirCount int
	RandInt  func(n int) int
}

// NewSampler returns a sampler over a fixed directory count.
func NewSampler(dirCount int) Sampler {
	return Sampler{DirCount: dirCount, RandInt: rand.Intn}
}

// Pick draws up to ten random directory indices, resolving each through
// resolve and attempting construction through build. An index resolving to
// the currently active path counts as a rejection without construction;
// a resolve or build failure counts as a rejection. After ten rejections
// Pick gives up silently, reporting the attempts spent.
func (s Sampler) Pick(current string, resolve func(int) (string, error), build func(string) error) (string, int, bool) {
	if s.DirCount <= 0 {
		return "", 0, false
	}
	attempts := 0
	for attempts < attemptBudget {
		path, err := resolve(s.RandInt(s.DirCount))
		if err != nil {
			attempts++
			continue
		}
		if path == current {
			attempts++
			continue
		}
		if err := build(path); err != nil {
			attempts++
			continue
		}
		return path, attempts + 1, true
	}
	return "", attempts, false
}
