package store

import (
	"context"
	"sync"
	"time"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// MemoryStore keeps files in a map. Stored files are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]*File
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files: make(map[string]*File),
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(f, s.now())
	if _, ok := s.files[f.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "file %s already exists", f.ID)
	}
	s.files[f.ID] = f.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, notFound(id)
	}
	return f.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*File, error) {
	s.mu.RLock()
	out := make([]*File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f.Clone())
	}
	s.mu.RUnlock()

	sortByUpdated(out)
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.files[f.ID]
	if !ok {
		return notFound(f.ID)
	}
	f.CreatedAt = old.CreatedAt
	f.UpdatedAt = s.now()
	s.files[f.ID] = f.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return notFound(id)
	}
	delete(s.files, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
