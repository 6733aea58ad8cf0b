// Package bookmark tracks bookmarked word indices and their timeline marker
// positions.
package bookmark

import "sort"

// Set holds bookmarked word indices, sorted and deduplicated. The bookmark
// list and the timeline markers both render from the same set, so the two
// representations cannot drift apart.
type Set struct {
	indices []int
}

// NewSet returns an empty set.
func NewSet() *Set { return &Set{} }

// Add inserts idx, reporting whether it was new.
func (s *Set) Add(idx int) bool {
	i := sort.SearchInts(s.indices, idx)
	if i < len(s.indices) && s.indices[i] == idx {
		return false
	}
	s.indices = append(s.indices, 0)
	copy(s.indices[i+1:], s.indices[i:])
	s.indices[i] = idx
	return true
}

// Remove deletes idx, reporting whether it was present.
func (s *Set) Remove(idx int) bool {
	i := sort.SearchInts(s.indices, idx)
	if i >= len(s.indices) || s.indices[i] != idx {
		return false
	}
	s.indices = append(s.indices[:i], s.indices[i+1:]...)
	return true
}

// Contains reports whether idx is bookmarked.
func (s *Set) Contains(idx int) bool {
	i := sort.SearchInts(s.indices, idx)
	return i < len(s.indices) && s.indices[i] == idx
}

// All returns the indices in ascending order.
func (s *Set) All() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// At returns the n-th bookmark (0-based) in ascending order.
func (s *Set) At(n int) (idx int, ok bool) {
	if n < 0 || n >= len(s.indices) {
		return 0, false
	}
	return s.indices[n], true
}

// Len returns the number of bookmarks.
func (s *Set) Len() int { return len(s.indices) }

// Clear drops all bookmarks. Bookmarks do not outlive a text load.
func (s *Set) Clear() { s.indices = s.indices[:0] }

// MarkerPercent places a timeline marker for idx on a bar spanning a text of
// total words: idx/(total-1) × 100. A text of one word or fewer has no
// meaningful axis and maps to 0.
func MarkerPercent(idx, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(idx) / float64(total-1) * 100
}
