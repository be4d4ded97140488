package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrewowest/Hypnosis/internal/model"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directives.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteWriteAndReadAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLiteStore(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	d := testDirective("a", now)
	d.Category = "rules"
	d.Metadata = map[string]any{"source": "test"}

	if err := s.Write(ctx, d); err != nil {
		t.Fatalf("write: %v", err)
	}
	s.Write(ctx, testDirective("b", now.Add(time.Millisecond)))

	ds, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds))
	}
	if ds[0].ID != "a" || ds[1].ID != "b" {
		t.Errorf("expected insertion order a,b; got %s,%s", ds[0].ID, ds[1].ID)
	}
	if ds[0].Category != "rules" {
		t.Errorf("expected category 'rules', got %q", ds[0].Category)
	}
	if ds[0].Metadata["source"] != "test" {
		t.Errorf("expected metadata source 'test', got %v", ds[0].Metadata["source"])
	}
	if !ds[0].CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, ds[0].CreatedAt)
	}
}

func TestSQLiteTombstoneAndReplace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSQLiteStore(t)

	now := time.Now().UTC()
	for _, id := range []string{"a", "b", "c"} {
		s.Write(ctx, testDirective(id, now))
		now = now.Add(time.Millisecond)
	}

	if err := s.AppendTombstone(ctx, "b"); err != nil {
		t.Fatalf("append tombstone: %v", err)
	}

	ds, _ := s.ReadAll(ctx)
	if len(ds) != 3 || !ds[1].Tombstoned {
		t.Fatalf("expected 3 records with 'b' tombstoned, got %+v", ds)
	}

	if err := s.ReplaceAll(ctx, []model.Directive{ds[0], ds[2]}); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	ds, _ = s.ReadAll(ctx)
	if len(ds) != 2 || ds[0].ID != "a" || ds[1].ID != "c" {
		t.Errorf("expected a,c after replace, got %+v", ds)
	}
	if ds[0].Tombstoned || ds[1].Tombstoned {
		t.Error("expected no tombstones after replace")
	}
}

func TestSQLiteDurabilityAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "directives.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Write(ctx, testDirective("a", time.Now().UTC()))
	s.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	ds, err := s2.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(ds) != 1 || ds[0].ID != "a" {
		t.Errorf("expected record 'a' to survive reopen, got %+v", ds)
	}
}
