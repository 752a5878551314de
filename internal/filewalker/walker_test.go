package filewalker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`e "hello there"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkAppliesExclusions(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "script.rpy"))
	writeFile(t, filepath.Join(root, "chapters", "day1.rpy"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	// Excluded by directory blacklist, at any depth.
	writeFile(t, filepath.Join(root, "tl", "schinese", "x.rpy"))
	writeFile(t, filepath.Join(root, "chapters", "cache", "y.rpy"))
	writeFile(t, filepath.Join(root, "renpy", "common.rpy"))
	writeFile(t, filepath.Join(root, "saved", "slot.rpy"))

	// Hidden and underscore-prefixed directories.
	writeFile(t, filepath.Join(root, ".git", "hook.rpy"))
	writeFile(t, filepath.Join(root, "_private", "z.rpy"))

	// Excluded by file-name prefix.
	writeFile(t, filepath.Join(root, "00engine.rpy"))
	writeFile(t, filepath.Join(root, "gui.rpy"))
	writeFile(t, filepath.Join(root, "gui_extras.rpy"))

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := map[string]bool{
		filepath.Join(root, "script.rpy"):           true,
		filepath.Join(root, "chapters", "day1.rpy"): true,
	}
	if len(files) != len(want) {
		t.Fatalf("Walk found %d files, want %d: %v", len(files), len(want), files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected file in walk: %s", f)
		}
	}
}

func TestWalkDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.rpy"))
	writeFile(t, filepath.Join(root, "a.rpy"))
	writeFile(t, filepath.Join(root, "sub", "c.rpy"))

	first, err := Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 3 {
		t.Fatalf("found %d files, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("walk order not stable: %v vs %v", first, second)
		}
	}
	if filepath.Base(first[0]) != "a.rpy" || filepath.Base(first[1]) != "b.rpy" {
		t.Errorf("walk not lexicographic: %v", first)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrMissingRoot) {
		t.Errorf("Walk on missing root = %v, want ErrMissingRoot", err)
	}
}

func TestWalkRootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "not-a-dir")
	writeFile(t, path)

	_, err := Walk(path)
	if !errors.Is(err, ErrMissingRoot) {
		t.Errorf("Walk on a file = %v, want ErrMissingRoot", err)
	}
}
