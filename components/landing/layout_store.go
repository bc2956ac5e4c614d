package landing

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLayoutStore keeps layouts in process memory. Useful for tests and
// single-node demos.
type MemoryLayoutStore struct {
	mu   sync.RWMutex
	data map[string][]WidgetConfig
}

var _ LayoutStore = (*MemoryLayoutStore)(nil)

// NewMemoryLayoutStore creates an empty store.
func NewMemoryLayoutStore() *MemoryLayoutStore {
	return &MemoryLayoutStore{data: make(map[string][]WidgetConfig)}
}

// SaveLayout stores a copy of the sequence for the page.
func (s *MemoryLayoutStore) SaveLayout(_ context.Context, pageID string, widgets []WidgetConfig) error {
	if pageID == "" {
		return fmt.Errorf("landing: layout store requires page id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[pageID] = cloneWidgets(widgets)
	return nil
}

// LoadLayout returns the stored sequence or an empty one.
func (s *MemoryLayoutStore) LoadLayout(_ context.Context, pageID string) ([]WidgetConfig, error) {
	if pageID == "" {
		return nil, fmt.Errorf("landing: layout store requires page id")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneWidgets(s.data[pageID]), nil
}
