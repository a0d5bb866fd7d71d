package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/storage"
)

// ErrStoreDown is a stand-in backend failure for PutErr.
var ErrStoreDown = errors.New("store down")

// ProofStore is an in-memory storage.ProofStore. PutErr, when set, is
// returned by every Put.
type ProofStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	PutErr  error
}

func NewProofStore() *ProofStore {
	return &ProofStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *ProofStore) Put(_ context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.objects[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return nil
}

func (s *ProofStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *ProofStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

// Len reports how many objects are stored.
func (s *ProofStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// ContentType returns the type recorded for key.
func (s *ProofStore) ContentType(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[key]
}
