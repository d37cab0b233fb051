package store

import (
	"context"
	"fmt"
)

// Add inserts v and returns it wrapped with its newly assigned key.
//
// The insert is committed on its own transaction. If a unique index rejects
// the value, or the insert fails for any other reason, an ErrCodeWrite error
// is returned and the store is unchanged.
func (s *Store[T]) Add(ctx context.Context, v T) (Record[T], error) {
	data, err := marshalValue(v)
	if err != nil {
		return Record[T]{}, newError(ErrCodeWrite, "add", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record[T]{}, newError(ErrCodeWrite, "add", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `INSERT INTO records (value) VALUES (?)`, data)
	if err != nil {
		if IsUniqueViolation(err) {
			return Record[T]{}, newError(ErrCodeWrite, "add", fmt.Errorf("unique index violation: %w", err))
		}
		return Record[T]{}, newError(ErrCodeWrite, "add", fmt.Errorf("insert: %w", err))
	}

	key, err := result.LastInsertId()
	if err != nil {
		return Record[T]{}, newError(ErrCodeWrite, "add", fmt.Errorf("last insert id: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return Record[T]{}, newError(ErrCodeWrite, "add", fmt.Errorf("commit: %w", err))
	}

	return keyedRecord(key, v), nil
}
