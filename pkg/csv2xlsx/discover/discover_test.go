package discover

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("a,b\n"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFindSortsCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "B.csv", "a.csv", "C.CSV", "notes.txt", "sub/d.csv")

	files, err := Find(root, Options{})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	expected := []string{"a.csv", "B.csv", "C.CSV"}
	if got := relative(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFindRecursive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "z.csv", "sub/b.csv", "sub/deeper/A.csv", "other/b.csv", "sub/readme.md")

	files, err := Find(root, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	expected := []string{"sub/deeper/A.csv", "other/b.csv", "sub/b.csv", "z.csv"}
	if got := relative(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFindSkipsDirectoriesNamedLikeCSV(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "real.csv", "fake.csv/inner.txt")

	files, err := Find(root, Options{})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	expected := []string{"real.csv"}
	if got := relative(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFindExclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "keep.csv", "draft.tmp.csv", "archive/old.csv", "sub/keep2.csv", "sub/archive/older.csv")

	files, err := Find(root, Options{Recursive: true, Exclude: []string{"archive/", "*.tmp.csv"}})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	expected := []string{"keep.csv", "sub/keep2.csv"}
	if got := relative(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFindEmptyAndMissing(t *testing.T) {
	files, err := Find(t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %v", files)
	}

	if _, err := Find(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestFindSkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	touch(t, root, "ok/a.csv", "locked/b.csv")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	var logs bytes.Buffer
	files, err := Find(root, Options{
		Recursive: true,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	expected := []string{"ok/a.csv"}
	if got := relative(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if !strings.Contains(logs.String(), "skipping unreadable path") || !strings.Contains(logs.String(), "locked") {
		t.Errorf("Expected warning about locked directory, got %q", logs.String())
	}
}
