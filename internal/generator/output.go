package generator

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrPathEscape is returned for output names that would leave the output
// root.
var ErrPathEscape = errors.New("output path escapes the output directory")

// Output receives generated files. Names are slash-separated and relative to
// the output root.
type Output interface {
	WriteFile(name string, data []byte) error
}

// cleanName validates name and returns it in canonical slash form.
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	return clean, nil
}

// DirOutput writes files below a root directory, creating parent
// directories as needed.
type DirOutput struct {
	root string
}

// NewDirOutput returns an Output rooted at dir.
func NewDirOutput(dir string) *DirOutput {
	return &DirOutput{root: dir}
}

// Root returns the output directory.
func (o *DirOutput) Root() string { return o.root }

// WriteFile writes data to root/name.
func (o *DirOutput) WriteFile(name string, data []byte) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	path := filepath.Join(o.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", clean, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", clean, err)
	}
	return nil
}

// MemoryOutput collects files in memory.
type MemoryOutput struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryOutput returns an empty MemoryOutput.
func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{files: make(map[string][]byte)}
}

// WriteFile stores a copy of data under name, replacing earlier content.
func (o *MemoryOutput) WriteFile(name string, data []byte) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[clean] = slices.Clone(data)
	return nil
}

// File returns the content written under name.
func (o *MemoryOutput) File(name string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.files[name]
	return data, ok
}

// Names returns the written file names in lexical order.
func (o *MemoryOutput) Names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Sorted(maps.Keys(o.files))
}

// CopyTo writes every collected file to out in lexical order.
func (o *MemoryOutput) CopyTo(out Output) error {
	for _, name := range o.Names() {
		data, _ := o.File(name)
		if err := out.WriteFile(name, data); err != nil {
			return err
		}
	}
	return nil
}
