package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Booking
}

// NewMemoryRepository constructs an in-memory repository for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Booking)}
}

func (r *memoryRepository) Create(_ context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[b.ID]; exists {
		return errors.New("booking exists")
	}
	r.storage[b.ID] = b
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.storage[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryRepository) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != StatusPending {
		return ErrFinalized
	}
	b.Status = status
	r.storage[id] = b
	return nil
}

func (r *memoryRepository) ListByRenter(_ context.Context, renterID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.storage {
		if b.RenterID == renterID {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.storage {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bookings []Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
