package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps every slot in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	newer      Slot
	slots      map[Slot]map[string][]byte
	comparison []byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		newer: SlotA,
		slots: map[Slot]map[string][]byte{
			SlotA: {},
			SlotB: {},
			SlotC: {},
		},
	}
}

// ReadSnapshot returns a copy of the stored document.
func (m *MemoryStore) ReadSnapshot(_ context.Context, gen Generation, base string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slot, err := SlotFor(m.newer, gen)
	if err != nil {
		return nil, err
	}
	doc, ok := m.slots[slot][strings.ToUpper(base)]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(doc), nil
}

// WriteSnapshot stores a copy of doc.
func (m *MemoryStore) WriteSnapshot(_ context.Context, gen Generation, base string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, err := SlotFor(m.newer, gen)
	if err != nil {
		return err
	}
	m.slots[slot][strings.ToUpper(base)] = slices.Clone(doc)
	return nil
}

// ClearStaging empties the staging slot.
func (m *MemoryStore) ClearStaging(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[m.newer.Next()] = map[string][]byte{}
	return nil
}

// Rotate advances the generation pointer to the staging slot and empties the
// slot that held the older generation.
func (m *MemoryStore) Rotate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staging := m.newer.Next()
	if len(m.slots[staging]) == 0 {
		return nil
	}
	m.slots[m.newer.Prev()] = map[string][]byte{}
	m.newer = staging
	return nil
}

// ReadComparison returns the comparison document.
func (m *MemoryStore) ReadComparison(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.comparison == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(m.comparison), nil
}

// WriteComparison replaces the comparison document.
func (m *MemoryStore) WriteComparison(_ context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comparison = slices.Clone(doc)
	return nil
}

// DeleteComparison drops the comparison document.
func (m *MemoryStore) DeleteComparison() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comparison = nil
}
