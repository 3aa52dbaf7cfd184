package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("object not found")

// Store keeps objects in process memory. Used in development and tests so
// no cloud bucket is needed.
type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

type Object struct {
	ContentType string
	Data        []byte
}

func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &Store{
		objects: make(map[string]Object),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[key] = Object{ContentType: contentType, Data: buf}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object. Only used by tests.
func (s *Store) Get(key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

// Len reports the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
