package property

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Property
}

// NewMemoryRepository constructs an in-memory repository for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Property)}
}

func (r *memoryRepository) Create(_ context.Context, p Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[p.ID]; exists {
		return errors.New("property exists")
	}
	r.storage[p.ID] = p
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.storage[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) Update(_ context.Context, p Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[p.ID]; !ok {
		return ErrNotFound
	}
	r.storage[p.ID] = p
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) ListAvailable(_ context.Context) ([]Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Property
	for _, p := range r.storage {
		if p.Available {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Property
	for _, p := range r.storage {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(props []Property) {
	sort.Slice(props, func(i, j int) bool {
		return props[i].CreatedAt.After(props[j].CreatedAt)
	})
}
