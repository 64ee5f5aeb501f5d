package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// FileStore is a file-based store for single-host servers.
// Each diagram is a JSON file named after its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a new file-based store.
// If baseDir is empty, defaults to ~/.config/eido/files/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "eido", "files")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

// filePath maps an ID to its JSON file. IDs are UUIDs; anything else is
// rejected so an ID can never name a path outside baseDir.
func (s *FileStore) filePath(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return filepath.Join(s.baseDir, id+".json"), true
}

func (s *FileStore) read(id string) (*File, error) {
	path, ok := s.filePath(id)
	if !ok {
		return nil, notFound(id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read file %s: %w", id, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse file %s: %w", id, err)
	}
	return &f, nil
}

func (s *FileStore) write(f *File) error {
	path, ok := s.filePath(f.ID)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid file id %q", f.ID)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal file: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write file %s: %w", f.ID, err)
	}
	return nil
}

func (s *FileStore) Create(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(f, s.now())
	if path, ok := s.filePath(f.ID); ok {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "file %s already exists", f.ID)
		}
	}
	return s.write(f)
}

func (s *FileStore) Get(ctx context.Context, id string) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) List(ctx context.Context) ([]*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	files := make([]*File, 0, len(entries))
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		f, err := s.read(id)
		if err != nil {
			continue
		}
		files = append(files, f)
	}
	sortByUpdated(files)
	return files, nil
}

func (s *FileStore) Update(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.read(f.ID)
	if err != nil {
		return err
	}
	f.CreatedAt = old.CreatedAt
	f.UpdatedAt = s.now()
	return s.write(f)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.filePath(id)
	if !ok {
		return notFound(id)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove file %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
