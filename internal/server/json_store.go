package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/store/jsonstore"
)

// JSONFileStore is a MemoryStore written back to a json-server style db.json
// after every change. A change that cannot be written is rolled back.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
	mem  *MemoryStore
}

// OpenJSONFileStore loads path, or seeds it when the file has no items yet.
func OpenJSONFileStore(path string, seed ...model.Item) (*JSONFileStore, error) {
	items, err := jsonstore.Load(path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && len(seed) > 0 {
		items = seed
		if err := jsonstore.Save(path, items); err != nil {
			return nil, err
		}
	}
	return &JSONFileStore{path: path, mem: NewMemoryStore(items...)}, nil
}

func (s *JSONFileStore) List(ctx context.Context) ([]model.Item, error) {
	return s.mem.List(ctx)
}

func (s *JSONFileStore) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	var it model.Item
	err := s.commit(ctx, func() (err error) {
		it, err = s.mem.Create(ctx, d)
		return err
	})
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *JSONFileStore) Update(ctx context.Context, id int, ch model.Changes) (model.Item, error) {
	var it model.Item
	err := s.commit(ctx, func() (err error) {
		it, err = s.mem.Update(ctx, id, ch)
		return err
	})
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *JSONFileStore) Delete(ctx context.Context, id int) error {
	return s.commit(ctx, func() error { return s.mem.Delete(ctx, id) })
}

// commit runs change against the memory store and saves the result,
// restoring the previous contents if either step fails.
func (s *JSONFileStore) commit(ctx context.Context, change func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.mem.snapshot()
	if err := change(); err != nil {
		s.mem.restore(prev)
		return err
	}
	items, err := s.mem.List(ctx)
	if err == nil {
		err = jsonstore.Save(s.path, items)
	}
	if err != nil {
		s.mem.restore(prev)
		return fmt.Errorf("persist %s: %w", s.path, err)
	}
	return nil
}
