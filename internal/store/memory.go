package store

import (
	"context"
	"sync"
)

// Memory is a mutex-guarded in-process Store. It backs tests and dry runs and
// mirrors the weak semantics of the real backends: overwrites are silent and
// list appends keep duplicates.
type Memory struct {
	mu      sync.Mutex
	tables  map[string]map[string]string
	lists   map[string][]string
	scalars map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		tables:  make(map[string]map[string]string),
		lists:   make(map[string][]string),
		scalars: make(map[string]string),
	}
}

func (m *Memory) FieldExists(_ context.Context, table, field string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tables[table][field]
	return ok, nil
}

func (m *Memory) SetField(_ context.Context, table, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]string)
	}
	m.tables[table][field] = value
	return nil
}

func (m *Memory) AppendToList(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], value)
	return nil
}

func (m *Memory) SetScalar(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scalars[key] = value
	return nil
}

// Field returns the stored value for table/field.
func (m *Memory) Field(table, field string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.tables[table][field]
	return v, ok
}

// FieldCount returns the number of fields stored in table.
func (m *Memory) FieldCount(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// List returns a copy of the list at key.
func (m *Memory) List(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lists[key]))
	copy(out, m.lists[key])
	return out
}

// Scalar returns the scalar value at key.
func (m *Memory) Scalar(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.scalars[key]
	return v, ok
}

func (m *Memory) Close() error { return nil }
