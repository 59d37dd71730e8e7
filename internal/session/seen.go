package session

import (
	"encoding/json"
	"slices"
)

// DefaultMaxSeen bounds how many served keys a session remembers.
const DefaultMaxSeen = 5000

// SeenSet records the keys of bonuses already served in a session. Once
// full, the oldest key is forgotten first. The zero value is ready to use.
type SeenSet struct {
	order []string
	index map[string]struct{}
	cap   int
}

// NewSeenSet returns an empty set holding at most capacity keys. A
// non-positive capacity uses DefaultMaxSeen.
func NewSeenSet(capacity int) *SeenSet {
	return &SeenSet{cap: capacity}
}

func (s *SeenSet) limit() int {
	if s.cap <= 0 {
		return DefaultMaxSeen
	}
	return s.cap
}

// setCapacity changes the bound, evicting the oldest keys if needed.
func (s *SeenSet) setCapacity(capacity int) {
	s.cap = capacity
	for len(s.order) > s.limit() {
		delete(s.index, s.order[0])
		s.order = s.order[1:]
	}
}

// Contains reports whether key was served.
func (s *SeenSet) Contains(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

// Add records key. Adding a key already present is a no-op.
func (s *SeenSet) Add(key string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[key]; ok {
		return
	}
	s.order = append(s.order, key)
	s.index[key] = struct{}{}
	for len(s.order) > s.limit() {
		delete(s.index, s.order[0])
		s.order = s.order[1:]
	}
}

// Len returns the number of keys held.
func (s *SeenSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Keys returns the keys oldest first.
func (s *SeenSet) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// Clone returns an independent copy.
func (s *SeenSet) Clone() *SeenSet {
	out := &SeenSet{cap: s.cap}
	for _, k := range s.order {
		out.Add(k)
	}
	return out
}

// MarshalJSON encodes the set as a list, oldest first.
func (s *SeenSet) MarshalJSON() ([]byte, error) {
	keys := s.Keys()
	if keys == nil {
		keys = []string{}
	}
	return json.Marshal(keys)
}

// UnmarshalJSON decodes a list of keys.
func (s *SeenSet) UnmarshalJSON(b []byte) error {
	var keys []string
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	s.order, s.index = nil, nil
	for _, k := range keys {
		s.Add(k)
	}
	return nil
}
