package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocumentsReadsTextFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "os"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"ai.txt":        "neural networks",
		"os/unit1.md":   "process scheduling",
		"ignored.jpeg":  "binary junk",
		"also-skip.bin": "more junk",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := LoadDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2: %+v", len(docs), docs)
	}

	byID := map[string]string{}
	for _, d := range docs {
		byID[d.ID] = d.Text
	}
	if byID["ai.txt"] != "neural networks" {
		t.Errorf("ai.txt text = %q", byID["ai.txt"])
	}
	if byID[filepath.Join("os", "unit1.md")] != "process scheduling" {
		t.Errorf("nested doc missing: %v", byID)
	}
}

func TestLoadDocumentsOrderIsStable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := LoadDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	for i, d := range docs {
		if d.ID != want[i] {
			t.Fatalf("document order %v, want %v", docs, want)
		}
	}
}

func TestLoadDocumentsNoData(t *testing.T) {
	if _, err := LoadDocuments(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrNoData) {
		t.Errorf("missing dir error = %v, want ErrNoData", err)
	}
	if _, err := LoadDocuments(t.TempDir()); !errors.Is(err, ErrNoData) {
		t.Errorf("empty dir error = %v, want ErrNoData", err)
	}
}
