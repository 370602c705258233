package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	w, err := s.Create(ctx, "site/scan.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := s.Open(ctx, "site/scan.ply")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want hello", got)
	}
}

func TestLocalStoreOpenMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	if _, err := s.Open(context.Background(), "nope.ply"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestLocalStoreListRecursive(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	for _, name := range []string{"a.ply", "sub/b.ply", "sub/deep/c.ply"} {
		w, err := s.Create(ctx, name)
		if err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
		w.Write([]byte("x"))
		if err := w.Close(); err != nil {
			t.Fatalf("Close %s failed: %v", name, err)
		}
	}

	names, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a.ply", "sub/b.ply", "sub/deep/c.ply"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}

	// Listing a single file returns just that name.
	names, err = s.List(ctx, "sub/b.ply")
	if err != nil {
		t.Fatalf("List file failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"sub/b.ply"}) {
		t.Errorf("got %v", names)
	}
}

func TestLocalStoreNoPartialArtifacts(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	w, err := s.Create(ctx, "scan.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte("partial"))

	// Before Close, the target name must not exist.
	if _, err := os.Stat(filepath.Join(root, "scan.ply")); !os.IsNotExist(err) {
		t.Errorf("target visible before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "scan.ply")); err != nil {
		t.Errorf("target missing after Close: %v", err)
	}
}

func TestLocalStoreAbortDiscardsWrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	w, err := s.Create(ctx, "scan.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte("truncated"))
	if err := Abort(w); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	// Close after Abort must not resurrect the write.
	if err := w.Close(); err != nil {
		t.Fatalf("Close after Abort failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "scan.ply")); !os.IsNotExist(err) {
		t.Errorf("aborted write published scan.ply")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("aborted write left %d files behind", len(entries))
	}
}

func TestMemoryStoreAbortDiscardsWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	w, err := s.Create(ctx, "scan.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte("truncated"))
	if err := Abort(w); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close after Abort failed: %v", err)
	}

	if _, ok := s.Get("scan.ply"); ok {
		t.Error("aborted write published scan.ply")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Put("in/a.ply", []byte("a"))

	w, err := s.Create(ctx, "in/b.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Write([]byte("b"))
	w.Close()

	names, err := s.List(ctx, "in/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"in/a.ply", "in/b.ply"}) {
		t.Errorf("got %v", names)
	}

	if _, err := s.Open(ctx, "in/c.ply"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}
