package rvlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenTruncatesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rvlog.txt")
	if err := os.WriteFile(path, []byte("stale content"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.String("fresh")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "fresh" {
		t.Fatalf("file content = %q, want %q", got, "fresh")
	}
}

func TestByteAndPrintfAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rvlog.txt")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Byte('A')
	l.Printf("%d\n", 42)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "A42\n"
	if string(got) != want {
		t.Fatalf("file content = %q, want %q", got, want)
	}
}

func TestDiscardLoggerDropsEverything(t *testing.T) {
	l := NewDiscard()
	l.String("should vanish")
	l.Byte('x')
	l.Printf("whatever %d", 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close on discard logger: %v", err)
	}
}
