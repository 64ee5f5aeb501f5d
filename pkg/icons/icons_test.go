package icons

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeIcons(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDirLookup(t *testing.T) {
	dir := writeIcons(t, map[string]string{"db.png": "PNGDATA"})
	r := NewDir(dir)
	tests := []struct {
		name string
		want string
	}{
		{"db", "PNGDATA"},
		{"missing", ""},
		{"", ""},
		{"../secret", ""},
		{"sub/db", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(r.Lookup(tt.name)); got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDirList(t *testing.T) {
	dir := writeIcons(t, map[string]string{
		"lock.png":    "x",
		"db.png":      "x",
		"README.md":   "x",
		".hidden.png": "x",
	})
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := NewDir(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"db", "lock"}; !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestDirListMissing(t *testing.T) {
	if _, err := NewDir(filepath.Join(t.TempDir(), "nope")).List(); err == nil {
		t.Error("List() on missing dir returned nil error")
	}
}

func TestEncode(t *testing.T) {
	m := Map{"db": []byte("PNG")}

	if got, want := Encode(m, "db"), base64.StdEncoding.EncodeToString([]byte("PNG")); got != want {
		t.Errorf("Encode(db) = %q, want %q", got, want)
	}
	if got := Encode(m, "missing"); got != "" {
		t.Errorf("Encode(missing) = %q", got)
	}
	if got := Encode(m, ""); got != "" {
		t.Errorf("Encode(\"\") = %q", got)
	}
	if got := Encode(nil, "db"); got != "" {
		t.Errorf("Encode(nil resolver) = %q", got)
	}
	if got := Encode(Null{}, "db"); got != "" {
		t.Errorf("Encode(Null) = %q", got)
	}
}

func TestMapList(t *testing.T) {
	names, _ := Map{"b": nil, "a": nil}.List()
	if !slices.Equal(names, []string{"a", "b"}) {
		t.Errorf("List() = %v", names)
	}
}
