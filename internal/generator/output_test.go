package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirOutputWritesNested(t *testing.T) {
	root := t.TempDir()
	out := NewDirOutput(root)

	if err := out.WriteFile("etc/bind/db.lan", []byte("zone")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "etc", "bind", "db.lan"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "zone" {
		t.Errorf("content = %q, want zone", got)
	}
}

func TestOutputRejectsEscapes(t *testing.T) {
	names := []string{"", "/etc/passwd", "../outside", "a/../../b", ".", "a/.."}
	outputs := map[string]Output{
		"dir":    NewDirOutput(t.TempDir()),
		"memory": NewMemoryOutput(),
	}
	for kind, out := range outputs {
		for _, name := range names {
			if err := out.WriteFile(name, nil); !errors.Is(err, ErrPathEscape) {
				t.Errorf("%s WriteFile(%q) error = %v, want ErrPathEscape", kind, name, err)
			}
		}
	}
}

func TestMemoryOutput(t *testing.T) {
	out := NewMemoryOutput()
	data := []byte("v1")
	if err := out.WriteFile("b/file", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'x'
	if err := out.WriteFile("./a", []byte("a")); err != nil {
		t.Fatal(err)
	}

	got, ok := out.File("b/file")
	if !ok || string(got) != "v1" {
		t.Errorf("File(b/file) = %q, %v; want stored copy v1", got, ok)
	}
	if names := out.Names(); len(names) != 2 || names[0] != "a" || names[1] != "b/file" {
		t.Errorf("Names = %v, want [a b/file]", names)
	}
}

func TestMemoryOutputCopyTo(t *testing.T) {
	mem := NewMemoryOutput()
	for _, name := range []string{"etc/dhcp/dhcpd.conf", "inventory.db"} {
		if err := mem.WriteFile(name, []byte(name)); err != nil {
			t.Fatal(err)
		}
	}

	root := t.TempDir()
	if err := mem.CopyTo(NewDirOutput(root)); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	for _, name := range mem.Names() {
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if string(got) != name {
			t.Errorf("%s content = %q", name, got)
		}
	}
}
