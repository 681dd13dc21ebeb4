package walkfs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWalkVisitsRecognizedExtensionsOnly(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	write("model.pkl")
	write("weights.pt")
	write("readme.md")
	write("data.npy")

	var visited []string
	err := Walk(dir, nil, nil, func(path string) error {
		visited = append(visited, filepath.Base(path))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	sort.Strings(visited)
	want := []string{"data.npy", "model.pkl", "weights.pt"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited = %v, want %v", visited, want)
		}
	}
}

func TestWalkRespectsExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pkl", "b.pkl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	var visited []string
	err := Walk(dir, nil, []string{"a.pkl"}, func(path string) error {
		visited = append(visited, filepath.Base(path))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(visited) != 1 || visited[0] != "b.pkl" {
		t.Fatalf("visited = %v, want [b.pkl]", visited)
	}
}

func TestWalkRespectsIncludeGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pkl", "b.pt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	var visited []string
	err := Walk(dir, []string{"*.pkl"}, nil, func(path string) error {
		visited = append(visited, filepath.Base(path))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(visited) != 1 || visited[0] != "a.pkl" {
		t.Fatalf("visited = %v, want [a.pkl]", visited)
	}
}
