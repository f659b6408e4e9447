package config

// NameSet is an immutable set of permitted counter names. It is built once
// at startup and shared without synchronization.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from a slice of names
func NewNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set (exact match)
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
