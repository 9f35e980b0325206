package profile

import "strings"

// Store maps profile names to profiles and remembers insertion order.
// It is filled during startup and only read afterwards. The zero value is
// an empty store.
type Store struct {
	byName map[string]Profile
	order  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[string]Profile)}
}

// Add validates p and inserts it under its name with surrounding space
// removed. A profile with an existing name replaces the earlier one in
// place. An invalid profile leaves the store untouched.
func (s *Store) Add(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)
	if s.byName == nil {
		s.byName = make(map[string]Profile)
	}
	if _, exists := s.byName[p.Name]; !exists {
		s.order = append(s.order, p.Name)
	}
	s.byName[p.Name] = p
	return nil
}

// Get looks a profile up by exact name.
func (s *Store) Get(name string) (Profile, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Len returns the number of distinct profiles.
func (s *Store) Len() int {
	return len(s.order)
}

// All returns every profile in insertion order.
func (s *Store) All() []Profile {
	out := make([]Profile, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// HasSnapshot reports whether any profile carries a snapshot URL.
func (s *Store) HasSnapshot() bool {
	for _, p := range s.byName {
		if p.SnapURL != "" {
			return true
		}
	}
	return false
}
