package objstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	wrap "github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
)

// DummyStorage is an in-memory core.FileStorage used in tests and local
// development.
type DummyStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ core.FileStorage = (*DummyStorage)(nil) // interface compliance check

func NewDummyStorage() *DummyStorage {
	return &DummyStorage{objects: make(map[string][]byte)}
}

func (s *DummyStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	locator := "dummy://" + key
	s.objects[locator] = data
	return locator, nil
}

func (s *DummyStorage) Download(_ context.Context, locator string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[locator]
	if !ok {
		return nil, wrap.Errorf("object %q not found", locator)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Len reports the number of stored objects.
func (s *DummyStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
