package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_AssignsIncreasingKeys(t *testing.T) {
	s := createTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		rec := mustAdd(t, s, entry{Name: string(rune('a' + i)), Moment: int64(i)})
		key, ok := rec.Key()
		require.True(t, ok, "record %d has no key", i)
		assert.Greater(t, key, last)
		last = key
	}
}

func TestAdd_ReturnsValue(t *testing.T) {
	s := createTestStore(t)

	v := entry{Name: "widget", Moment: 42, Meta: meta{Source: "manual"}}
	rec := mustAdd(t, s, v)
	assert.Equal(t, v, rec.Value)
}

func TestAdd_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	mustAdd(t, s, entry{Name: "same", Moment: 1})
	before := mustCount(t, s)

	_, err := s.Add(ctx, entry{Name: "same", Moment: 2})
	require.Error(t, err)
	assert.True(t, IsWrite(err), "expected write error, got %v", err)
	assert.True(t, IsUniqueViolation(err))

	assert.Equal(t, before, mustCount(t, s), "failed insert changed the store")

	last, err := s.GetLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last.Value.Moment)
}

func TestAdd_NonUniqueIndexAllowsDuplicates(t *testing.T) {
	s := createTestStore(t)

	mustAdd(t, s, entry{Name: "a", Moment: 7})
	mustAdd(t, s, entry{Name: "b", Moment: 7})

	assert.Equal(t, 2, mustCount(t, s))
}

func TestAdd_KeysNotReusedAfterFailedInsert(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first := mustAdd(t, s, entry{Name: "a", Moment: 1})
	_, err := s.Add(ctx, entry{Name: "a", Moment: 2})
	require.Error(t, err)
	second := mustAdd(t, s, entry{Name: "b", Moment: 3})

	k1, _ := first.Key()
	k2, _ := second.Key()
	assert.Greater(t, k2, k1)
}

func TestNewRecord_HasNoKey(t *testing.T) {
	rec := NewRecord(entry{Name: "x"})
	_, ok := rec.Key()
	assert.False(t, ok)
	assert.Equal(t, "x", rec.Value.Name)
}
