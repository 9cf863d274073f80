package server

import (
	"context"
	"errors"
	"sync"

	"github.com/Makepad-fr/shopster/internal/model"
)

var ErrNotFound = errors.New("item not found")

// Store is the collection behind the /items endpoints.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	// Update merges ch into item id and returns the result.
	Update(ctx context.Context, id int, ch model.Changes) (model.Item, error)
	Delete(ctx context.Context, id int) error
}

// SeedItems is the starting collection used by tests and `serve -seed`.
func SeedItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Yogurt", Category: model.Dairy},
		{ID: 2, Name: "Pomegranate", Category: model.Produce},
		{ID: 3, Name: "Lettuce", Category: model.Produce},
	}
}

// MemoryStore keeps items in a slice. New ids continue from the largest id.
type MemoryStore struct {
	mu     sync.Mutex
	items  []model.Item
	lastID int
}

func NewMemoryStore(seed ...model.Item) *MemoryStore {
	s := &MemoryStore{items: append([]model.Item(nil), seed...)}
	for _, it := range seed {
		s.lastID = max(s.lastID, it.ID)
	}
	return s
}

// memState is a copy of a MemoryStore's contents.
type memState struct {
	items  []model.Item
	lastID int
}

func (s *MemoryStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memState{items: append([]model.Item(nil), s.items...), lastID: s.lastID}
}

func (s *MemoryStore) restore(st memState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = st.items
	s.lastID = st.lastID
}

func (s *MemoryStore) List(_ context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, d model.Draft) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	it := d.Item(s.lastID)
	s.items = append(s.items, it)
	return it, nil
}

func (s *MemoryStore) Update(_ context.Context, id int, ch model.Changes) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.Item{}, ErrNotFound
	}
	s.items[i] = ch.Apply(s.items[i])
	return s.items[i], nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *MemoryStore) index(id int) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
