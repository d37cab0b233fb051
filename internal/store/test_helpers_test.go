package store

import (
	"context"
	"path/filepath"
	"testing"
)

// entry is the value type used across store tests.
type entry struct {
	Name   string `json:"name"`
	Moment int64  `json:"moment"`
	Meta   meta   `json:"meta"`
}

type meta struct {
	Source string `json:"source"`
}

var testIndexes = []IndexSpec{
	{Name: "idx_moment", Field: "moment"},
	{Name: "idx_name", Field: "name", Unique: true},
	{Name: "idx_source", Field: "meta.source"},
}

// createTestStore creates a new store in a temp dir with the test indexes.
func createTestStore(t *testing.T) *Store[entry] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open[entry](context.Background(), path, testIndexes...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustAdd inserts v and fails the test on error.
func mustAdd(t *testing.T, s *Store[entry], v entry) Record[entry] {
	t.Helper()
	rec, err := s.Add(context.Background(), v)
	if err != nil {
		t.Fatalf("Add(%+v) failed: %v", v, err)
	}
	return rec
}

// mustCount returns the record count and fails the test on error.
func mustCount(t *testing.T, s *Store[entry]) int {
	t.Helper()
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	return n
}
