package tracking

import (
	"sort"
	"sync"
)

type marker struct {
	start, end int
}

// MarkerSet is a set of range markers kept valid across edits.
// All operations are thread-safe.
type MarkerSet struct {
	mu      sync.RWMutex
	markers map[int]*marker
	nextID  int
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{markers: make(map[int]*marker)}
}

// Add registers a marker over [start, end) and returns its id.
func (s *MarkerSet) Add(start, end int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.markers[s.nextID] = &marker{start: start, end: end}
	return s.nextID
}

// Range returns the current range of a marker.
func (s *MarkerSet) Range(id int) (start, end int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	if !ok {
		return 0, 0, false
	}
	return m.start, m.end, true
}

// Remove drops a marker. Unknown ids are ignored.
func (s *MarkerSet) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, id)
}

// Len returns the number of live markers.
func (s *MarkerSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// IDs returns the live marker ids in ascending order.
func (s *MarkerSet) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.markers))
	for id := range s.markers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clear removes all markers.
func (s *MarkerSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = make(map[int]*marker)
}

// Replace updates markers for the replacement of [start, end) by newLen
// bytes. An insertion is a replacement of an empty range.
func (s *MarkerSet) Replace(start, end, newLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.markers {
		replaceMarker(m, start, end, newLen)
	}
}

// Move updates markers for text [srcStart, srcEnd) being cut and inserted
// at dest, where dest is an offset in the text before the move and lies
// outside the source range.
func (s *MarkerSet) Move(srcStart, srcEnd, dest int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := srcEnd - srcStart
	if n <= 0 || (dest > srcStart && dest < srcEnd) {
		return
	}
	target := dest
	if dest >= srcEnd {
		target = dest - n
	}

	for _, m := range s.markers {
		if m.start >= srcStart && m.end <= srcEnd {
			m.start = target + (m.start - srcStart)
			m.end = target + (m.end - srcStart)
			continue
		}
		replaceMarker(m, srcStart, srcEnd, 0)
		replaceMarker(m, target, target, n)
	}
}

func replaceMarker(m *marker, start, end, newLen int) {
	delta := newLen - (end - start)

	if start == end {
		if m.start == m.end && m.start == start {
			m.start += newLen
			m.end += newLen
			return
		}
		if m.start >= start {
			m.start += newLen
		}
		if m.end > start {
			m.end += newLen
		}
		return
	}

	switch {
	case m.end <= start:
		return
	case m.start >= end:
		m.start += delta
		m.end += delta
		return
	}

	if m.start > start {
		m.start = start + newLen
	}
	if m.end >= end {
		m.end += delta
	} else {
		m.end = start + newLen
	}
	if m.start > m.end {
		m.start = m.end
	}
}
