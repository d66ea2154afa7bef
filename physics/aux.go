package physics

// AuxTable is a side-table of mode-specific data keyed by BodyID, so the core
// Body never carries any one mode's bookkeeping. It is a sparse set: lookups
// are O(1) and the dense arrays stay compact under removal.
type AuxTable[T any] struct {
	denseIDs    []BodyID
	denseValues []T
	sparse      []int
}

// NewAuxTable creates an empty table.
func NewAuxTable[T any]() *AuxTable[T] {
	return &AuxTable[T]{}
}

// Has reports whether id has an entry.
func (s *AuxTable[T]) Has(id BodyID) bool {
	if s == nil || id == 0 || int(id)-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseIDs) && s.denseIDs[idx] == id
}

// Get returns a pointer to the entry for id, or nil.
func (s *AuxTable[T]) Get(id BodyID) *T {
	if !s.Has(id) {
		return nil
	}
	return &s.denseValues[s.sparse[id-1]]
}

// Set inserts or updates the entry for id.
func (s *AuxTable[T]) Set(id BodyID, v T) {
	if s == nil || id == 0 {
		return
	}
	for int(id)-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseIDs) - 1
}

// Remove deletes the entry for id if present.
func (s *AuxTable[T]) Remove(id BodyID) {
	if s == nil || !s.Has(id) {
		return
	}
	idx := s.sparse[id-1]
	last := len(s.denseIDs) - 1
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = s.denseIDs[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID-1] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseIDs = s.denseIDs[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
}

// Clear drops every entry and keeps the backing arrays.
func (s *AuxTable[T]) Clear() {
	if s == nil {
		return
	}
	for _, id := range s.denseIDs {
		s.sparse[id-1] = -1
	}
	clear(s.denseValues)
	s.denseIDs = s.denseIDs[:0]
	s.denseValues = s.denseValues[:0]
}

// Len returns the number of entries.
func (s *AuxTable[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}

// AuxStore lets a Simulation purge a body from every registered side-table
// without knowing their value types.
type AuxStore interface {
	Remove(id BodyID)
	Clear()
}
