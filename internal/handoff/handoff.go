// Package handoff carries a category selection from one view to the next.
// A value put under a key is read at most once: Take clears it.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Veraticus/industry-atlas/internal/model"
)

// SelectionKey is the key the pending category selection is stored under.
const SelectionKey = "selectedClassifications"

// Store holds short-lived values between views.
type Store interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Take returns the value under key and removes it. The bool is false
	// when nothing was stored.
	Take(ctx context.Context, key string) ([]byte, bool, error)
}

// SaveSelection stores sel as a JSON array of category ids.
func SaveSelection(ctx context.Context, store Store, sel model.FilterSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := store.Put(ctx, SelectionKey, data); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// TakeSelection consumes the pending selection. The bool is false when no
// selection was pending.
func TakeSelection(ctx context.Context, store Store) (model.FilterSelection, bool, error) {
	data, ok, err := store.Take(ctx, SelectionKey)
	if err != nil {
		return model.FilterSelection{}, false, fmt.Errorf("failed to take selection: %w", err)
	}
	if !ok {
		return model.FilterSelection{}, false, nil
	}

	var sel model.FilterSelection
	if err := json.Unmarshal(data, &sel); err != nil {
		return model.FilterSelection{}, false, fmt.Errorf("failed to decode selection: %w", err)
	}
	return sel, true, nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	values map[string][]byte
	mu     sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Take implements Store.
func (m *MemoryStore) Take(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if ok {
		delete(m.values, key)
	}
	return v, ok, nil
}
