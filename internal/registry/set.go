// Package registry maintains the ordered set of sites subject to gating.
package registry

import "github.com/ppiankov/intentgate/internal/hostkey"

// Set is an ordered collection of canonical host keys without duplicates.
// Order is display order only.
type Set struct {
	items []string
}

// NewSet canonicalizes items, dropping invalid and duplicate entries.
func NewSet(items []string) *Set {
	s := &Set{items: make([]string, 0, len(items))}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add appends the canonical form of site. It reports whether the set changed.
func (s *Set) Add(site string) bool {
	key := hostkey.Canonical(site)
	if key == "" || s.indexOf(key) >= 0 {
		return false
	}
	s.items = append(s.items, key)
	return true
}

// Remove deletes site. It reports whether the set changed.
func (s *Set) Remove(site string) bool {
	i := s.indexOf(hostkey.Canonical(site))
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// RemoveAt deletes the entry at display position i.
func (s *Set) RemoveAt(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, true
}

// Contains reports whether the canonical form of site is a member.
func (s *Set) Contains(site string) bool {
	key := hostkey.Canonical(site)
	return key != "" && s.indexOf(key) >= 0
}

// Items returns a copy in display order.
func (s *Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.items)
}

func (s *Set) indexOf(key string) int {
	for i, it := range s.items {
		if it == key {
			return i
		}
	}
	return -1
}

// IsGated applies inverted mode to a membership result: members are gated
// in block-list mode, non-members in allow-list mode.
func IsGated(isMember, inverted bool) bool {
	return (!inverted && isMember) || (inverted && !isMember)
}

// ButtonLabel is the popup action offered for a site with the given
// membership and mode.
func ButtonLabel(isMember, inverted bool) string {
	switch {
	case !inverted && isMember:
		return "unblock page."
	case !inverted:
		return "block page."
	case isMember:
		return "unallow page."
	default:
		return "allow page."
	}
}
