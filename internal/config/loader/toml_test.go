package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[editor]
tabstop = 4
expandtab = true
selection = "exclusive"

[history]
colon = 50
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	editor, ok := config["editor"].(map[string]any)
	if !ok {
		t.Fatal("expected editor to be a map")
	}
	if editor["tabstop"] != int64(4) {
		t.Errorf("tabstop = %v (%T), want 4", editor["tabstop"], editor["tabstop"])
	}
	if editor["expandtab"] != true {
		t.Errorf("expandtab = %v, want true", editor["expandtab"])
	}
	if editor["selection"] != "exclusive" {
		t.Errorf("selection = %v, want 'exclusive'", editor["selection"])
	}
	if v, _ := getByPath(config, "history.colon"); v != int64(50) {
		t.Errorf("history.colon = %v, want 50", v)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadEmpty(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.toml", "# nothing set\n")

	config, err := NewTOMLLoaderWithFS(memfs, "/empty.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("config = %v, want empty map", config)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", `
[editor
tabstop = 4
`)

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want '/invalid.toml'", parseErr.Path)
	}
	if parseErr.Line == 0 {
		t.Error("Line not set")
	}
	if !strings.Contains(parseErr.Error(), "line") {
		t.Errorf("Error() = %q, want line number", parseErr.Error())
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := &TOMLLoader{}

	config, err := loader.LoadFromReader(strings.NewReader(`
shell = "/bin/bash"
tabstop = 2
`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["shell"] != "/bin/bash" {
		t.Errorf("shell = %v, want '/bin/bash'", config["shell"])
	}
	if config["tabstop"] != int64(2) {
		t.Errorf("tabstop = %v, want 2", config["tabstop"])
	}
}

func TestTOMLLoader_LoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/etc/vicore/config.toml", `
"@include" = ["base.toml", "/shared/history.toml"]

[editor]
tabstop = 2
`)
	memfs.AddFile("/etc/vicore/base.toml", `
[editor]
tabstop = 4
expandtab = true
`)
	memfs.AddFile("/shared/history.toml", `
[history]
search = 20
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/etc/vicore/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := getByPath(config, "editor.tabstop"); v != int64(2) {
		t.Errorf("editor.tabstop = %v, want 2 from the including file", v)
	}
	if v, _ := getByPath(config, "editor.expandtab"); v != true {
		t.Errorf("editor.expandtab = %v, want true from base.toml", v)
	}
	if v, _ := getByPath(config, "history.search"); v != int64(20) {
		t.Errorf("history.search = %v, want 20 from the absolute include", v)
	}
	if _, ok := config[IncludeKey]; ok {
		t.Errorf("%s left in result", IncludeKey)
	}
}

func TestTOMLLoader_LoadWithIncludes_BadType(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `"@include" = 3`)

	_, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err == nil || !strings.Contains(err.Error(), "string or array") {
		t.Errorf("err = %v, want include type error", err)
	}
}

func TestTOMLLoader_LoadWithIncludes_DepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["b.toml"]`)
	memfs.AddFile("/b.toml", `"@include" = ["c.toml"]`)
	memfs.AddFile("/c.toml", `"@include" = ["d.toml"]`)
	memfs.AddFile("/d.toml", `value = 1`)

	loader := NewTOMLLoaderWithFS(memfs, "/a.toml")

	_, err := loader.LoadWithIncludes("/a.toml", 2)
	if err == nil {
		t.Fatal("expected depth exceeded error")
	}
	if !strings.Contains(err.Error(), "depth exceeded") {
		t.Errorf("expected 'depth exceeded' error, got: %v", err)
	}

	config, err := loader.LoadWithIncludes("/a.toml", 5)
	if err != nil {
		t.Fatalf("expected success with depth 5, got: %v", err)
	}
	if config["value"] != int64(1) {
		t.Errorf("value = %v, want 1", config["value"])
	}
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").Load()
	if err == nil {
		t.Fatal("expected include cycle to hit the depth limit")
	}
}

func TestOverlay(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nil dst",
			dst:  nil,
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "nil src",
			dst:  map[string]any{"a": 1},
			src:  nil,
			want: map[string]any{"a": 1},
		},
		{
			name: "override scalar",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"a": 2},
			want: map[string]any{"a": 2},
		},
		{
			name: "nested merge",
			dst: map[string]any{
				"editor": map[string]any{"tabstop": 8, "wrapscan": true},
			},
			src: map[string]any{
				"editor": map[string]any{"tabstop": 4},
			},
			want: map[string]any{
				"editor": map[string]any{"tabstop": 4, "wrapscan": true},
			},
		},
		{
			name: "scalar replaces map",
			dst:  map[string]any{"lua": map[string]any{"init": "a.lua"}},
			src:  map[string]any{"lua": "off"},
			want: map[string]any{"lua": "off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlay(tt.dst, tt.src)
			if !mapsEqual(got, tt.want) {
				t.Errorf("Overlay() = %v, want %v", got, tt.want)
			}
		})
	}
}

// mapsEqual compares two maps for equality (simple version for tests).
func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok {
			return false
		}
		switch ta := va.(type) {
		case map[string]any:
			tb, ok := vb.(map[string]any)
			if !ok || !mapsEqual(ta, tb) {
				return false
			}
		default:
			if va != vb {
				return false
			}
		}
	}
	return true
}
