package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/shopster/internal/model"
)

// JSON-backed storage in the json-server layout: {"items": [...]}.
// Single file, human-readable, portable. Callers serialize access.

type document struct {
	Items []model.Item `json:"items"`
}

// Load reads the items in path. A missing file is an empty collection.
func Load(path string) ([]model.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []model.Item{}
	}
	return doc.Items, nil
}

// Save replaces path with items, writing through a temp file.
func Save(path string, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(document{Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".items-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
