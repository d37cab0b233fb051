package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open[entry](context.Background(), path, testIndexes...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	assert.Equal(t, path, s.Path())
	assert.Equal(t, testIndexes, s.Indexes())
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open[entry](ctx, path, testIndexes...)
	require.NoError(t, err)
	_, err = s1.Add(ctx, entry{Name: "a", Moment: 1})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open[entry](ctx, path, testIndexes...)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open[entry](ctx, path, testIndexes...)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open[entry](ctx, path, testIndexes...)
	require.NoError(t, err)
	defer s.Close()

	// Verify schema is intact
	for _, table := range []string{"records", "store_indexes"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}
	assert.Equal(t, testIndexes, s.Indexes())
}

func TestOpen_ReopenIgnoresNewIndexDeclarations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open[entry](ctx, path, IndexSpec{Name: "idx_moment", Field: "moment"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open[entry](ctx, path,
		IndexSpec{Name: "idx_moment", Field: "moment"},
		IndexSpec{Name: "idx_name", Field: "name", Unique: true},
	)
	require.NoError(t, err)
	defer s2.Close()

	assert.True(t, s2.HasIndex("idx_moment"))
	assert.False(t, s2.HasIndex("idx_name"))

	_, err = s2.GetByIndex(ctx, "idx_name", "a")
	assert.True(t, IsUnknownIndex(err), "expected unknown index, got %v", err)

	// The undeclared unique constraint is not enforced either
	_, err = s2.Add(ctx, entry{Name: "dup", Moment: 1})
	require.NoError(t, err)
	_, err = s2.Add(ctx, entry{Name: "dup", Moment: 2})
	require.NoError(t, err)
}

func TestOpen_ReopenWithoutDeclarationsKeepsIndexes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open[entry](ctx, path, testIndexes...)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open[entry](ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, testIndexes, s2.Indexes())
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open[entry](context.Background(), "/nonexistent/dir/test.db")
	require.Error(t, err)
	assert.True(t, IsStoreOpen(err), "expected store open error, got %v", err)
}

func TestOpen_InvalidIndexDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		indexes []IndexSpec
	}{
		{"empty name", []IndexSpec{{Name: "", Field: "moment"}}},
		{"name with quote", []IndexSpec{{Name: "idx'; DROP TABLE records", Field: "moment"}}},
		{"empty field", []IndexSpec{{Name: "idx", Field: ""}}},
		{"field with quote", []IndexSpec{{Name: "idx", Field: "moment')"}}},
		{"trailing dot", []IndexSpec{{Name: "idx", Field: "meta."}}},
		{"duplicate", []IndexSpec{{Name: "idx", Field: "a"}, {Name: "idx", Field: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.db")
			_, err := Open[entry](context.Background(), path, tt.indexes...)
			require.Error(t, err)
			assert.True(t, IsStoreOpen(err))
		})
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_CreatesPhysicalIndexes(t *testing.T) {
	s := createTestStore(t)

	for _, spec := range testIndexes {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			spec.physicalName(),
		).Scan(&name)
		assert.NoError(t, err, "index %q not created", spec.Name)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store[entry]{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestClose_MultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open[entry](context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}

	// Second close should not panic (though may error)
	_ = s.Close()
}

func TestError_Format(t *testing.T) {
	err := indexError(ErrCodeUnknownIndex, "get by index", "idx_x", nil)
	assert.Equal(t, "store get by index: UNKNOWN_INDEX (index=idx_x)", err.Error())

	wrapped := newError(ErrCodeWrite, "add", os.ErrPermission)
	assert.ErrorIs(t, wrapped, os.ErrPermission)
	assert.True(t, IsWrite(wrapped))
	assert.False(t, IsNotFound(wrapped))
}
