// Package store persists diagram files: a named DSL source together with
// the Excalidraw scene last rendered from it.
//
// Backends:
//   - [MemoryStore]: in-memory storage for development and tests
//   - [FileStore]: JSON files in a directory for single-host servers
//   - [MongoStore]: MongoDB for shared deployments
//
// # Usage
//
//	s := store.NewMemoryStore()
//	f, err := store.NewFile("checkout flow", src)
//	if err != nil {
//	    return err
//	}
//	f.Document = scene
//	if err := s.Create(ctx, f); err != nil {
//	    return err
//	}
//
// Stores stamp CreatedAt and UpdatedAt themselves. List returns the most
// recently updated file first. A missing file is reported with the
// FILE_NOT_FOUND error code.
package store

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// File is a stored diagram.
type File struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Source    string          `json:"source"`
	Document  json.RawMessage `json:"document,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewFile validates name and returns an unsaved file with a fresh ID.
func NewFile(name, source string) (*File, error) {
	if err := errors.ValidateFileName(name); err != nil {
		return nil, err
	}
	return &File{
		ID:     uuid.NewString(),
		Name:   name,
		Source: source,
	}, nil
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	c := *f
	if f.Document != nil {
		c.Document = append(json.RawMessage(nil), f.Document...)
	}
	return &c
}

// Store is the interface for file storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Create saves a new file. An empty ID is filled with a fresh UUID.
	Create(ctx context.Context, f *File) error

	// Get retrieves a file by ID.
	Get(ctx context.Context, id string) (*File, error)

	// List returns all files, most recently updated first.
	List(ctx context.Context) ([]*File, error)

	// Update replaces an existing file and bumps its UpdatedAt.
	Update(ctx context.Context, f *File) error

	// Delete removes a file.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeFileNotFound, "file %s not found", id)
}

// prepare fills the ID and both timestamps of a file about to be created.
func prepare(f *File, now time.Time) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = now
	f.UpdatedAt = now
}

// sortByUpdated orders files newest first, breaking ties by ID.
func sortByUpdated(files []*File) {
	slices.SortFunc(files, func(a, b *File) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
