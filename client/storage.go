package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a keyed local cache for cart mirrors. Slots are addressed
// by an explicit identity key so guest and per-user carts never share
// state implicitly.
type Storage interface {
	Load(key string) ([]Item, error)
	Store(key string, items []Item) error
	Remove(key string) error
}

const guestKey = "guest"

// CartKey derives the storage slot for an identity. An empty userID
// addresses the guest slot.
func CartKey(userID string) string {
	if userID == "" {
		return "cart_" + guestKey
	}
	return "cart_" + userID
}

// MemoryStorage is an in-memory Storage, used in tests and as a
// fallback when no durable mirror is wanted.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]Item
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]Item)}
}

func (s *MemoryStorage) Load(key string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.slots[key]
	if !ok {
		return []Item{}, nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemoryStorage) Store(key string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]Item, len(items))
	copy(stored, items)
	s.slots[key] = stored
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// FileStorage persists each slot as a JSON file under a directory,
// mirroring browser local storage on disk.
type FileStorage struct {
	dir string
	mu  sync.Mutex
}

// NewFileStorage creates the storage directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStorage) Load(key string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Item{}, nil
		}
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupted slot behaves like an empty one
		return []Item{}, nil
	}
	return items, nil
}

func (s *FileStorage) Store(key string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
