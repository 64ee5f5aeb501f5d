// Package icons resolves icon names used in diagrams to PNG image data.
//
// Rendering asks a [Resolver] for each service and container icon. A
// resolver never fails: unknown, invalid or unreadable names resolve to no
// data and the renderer embeds an empty image. Implementations:
//
//   - [Dir]: reads <dir>/<name>.png from disk
//   - [Map]: in-memory, for tests and embedding
//   - [Null]: resolves nothing
package icons

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fish-not-phish/eido/pkg/errors"
)

// Ext is the file extension of icon assets.
const Ext = ".png"

// Resolver looks up raw icon bytes by name. Lookup returns nil for names it
// cannot resolve.
type Resolver interface {
	Lookup(name string) []byte
}

// Lister enumerates the icon names a resolver can serve.
type Lister interface {
	List() ([]string, error)
}

// Encode base64-encodes the icon for name, or returns "" when r is nil,
// name is empty or the icon is unknown.
func Encode(r Resolver, name string) string {
	if r == nil || name == "" {
		return ""
	}
	data := r.Lookup(name)
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// =============================================================================
// Dir
// =============================================================================

// Dir resolves icons from PNG files in a directory.
type Dir struct {
	root string
}

// NewDir returns a resolver rooted at dir. The directory is not checked
// until the first lookup.
func NewDir(dir string) *Dir {
	return &Dir{root: dir}
}

// Root returns the directory icons are read from.
func (d *Dir) Root() string { return d.root }

// Lookup reads <root>/<name>.png. Names that fail validation (for example
// ones containing path separators) resolve to nil.
func (d *Dir) Lookup(name string) []byte {
	path, err := d.Path(name)
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// Path returns the file path for name after validating it.
func (d *Dir) Path(name string) (string, error) {
	if err := errors.ValidateIconName(name); err != nil {
		return "", err
	}
	return filepath.Join(d.root, name+Ext), nil
}

// List returns the sorted names of all .png files in the directory.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read icon dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if errors.ValidateIconName(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// =============================================================================
// Map and Null
// =============================================================================

// Map is an in-memory resolver.
type Map map[string][]byte

// Lookup returns the stored bytes for name.
func (m Map) Lookup(name string) []byte { return m[name] }

// List returns the sorted names in the map.
func (m Map) List() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Null resolves nothing.
type Null struct{}

// Lookup always returns nil.
func (Null) Lookup(string) []byte { return nil }

// List always returns no names.
func (Null) List() ([]string, error) { return nil, nil }

var (
	_ Resolver = (*Dir)(nil)
	_ Lister   = (*Dir)(nil)
	_ Resolver = Map(nil)
	_ Lister   = Map(nil)
	_ Resolver = Null{}
	_ Lister   = Null{}
)
