package reportstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local serving. It orders
// rows by (partition, row) key the way the table service does, so paging
// behavior matches the reference implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[string]map[string]Entity // partition -> row -> entity
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[string]map[string]Entity)}
}

// Put implements Store. Duplicate rows keep the original entity.
func (s *MemoryStore) Put(_ context.Context, e Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.entities[e.PartitionKey]
	if !ok {
		rows = make(map[string]Entity)
		s.entities[e.PartitionKey] = rows
	}
	if _, exists := rows[e.RowKey]; exists {
		return nil
	}
	rows[e.RowKey] = e
	return nil
}

// ListPage implements Store.
func (s *MemoryStore) ListPage(_ context.Context, partitionKey string, pageSize int32, token *PageToken) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.entities[partitionKey]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if token != nil {
		for i, k := range keys {
			if k >= token.NextRowKey {
				start = i
				break
			}
			start = i + 1
		}
	}

	var page Page
	for i := start; i < len(keys); i++ {
		if int32(len(page.Items)) == pageSize {
			page.Next = &PageToken{NextPartitionKey: partitionKey, NextRowKey: keys[i]}
			break
		}
		page.Items = append(page.Items, rows[keys[i]])
	}
	return page, nil
}

// GetByID implements Store. Partitions are scanned in sorted order so
// lookups are deterministic even if a row key were duplicated across
// partitions.
func (s *MemoryStore) GetByID(_ context.Context, rowKey string) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partitions := make([]string, 0, len(s.entities))
	for p := range s.entities {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	for _, p := range partitions {
		if e, ok := s.entities[p][rowKey]; ok {
			entity := e
			return &entity, nil
		}
	}
	return nil, nil
}

// Len reports the total number of stored entities.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, rows := range s.entities {
		n += len(rows)
	}
	return n
}
