package ledger

// Memory is an in-process Ledger with no persistence, for tests and dry
// runs.
type Memory struct {
	names map[string]struct{}
}

// NewMemory creates a Memory ledger seeded with the given names.
func NewMemory(names ...string) *Memory {
	m := &Memory{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		m.names[n] = struct{}{}
	}
	return m
}

func (m *Memory) Contains(name string) bool {
	_, ok := m.names[name]
	return ok
}

func (m *Memory) Append(name string) error {
	m.names[name] = struct{}{}
	return nil
}

func (m *Memory) Len() int {
	return len(m.names)
}
