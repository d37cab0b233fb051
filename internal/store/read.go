package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetLast returns the record with the greatest key.
// Returns an ErrCodeNotFound error if the store is empty.
func (s *Store[T]) GetLast(ctx context.Context) (Record[T], error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, value
		FROM records
		ORDER BY id DESC
		LIMIT 1
	`)

	rec, err := scanRecordRow[T](row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record[T]{}, newError(ErrCodeNotFound, "get last", nil)
	}
	if err != nil {
		return Record[T]{}, fmt.Errorf("get last: %w", err)
	}
	return rec, nil
}

// GetByIndex returns the lowest-keyed record whose index value equals value.
//
// Returns ErrCodeUnknownIndex if the index was never declared and
// ErrCodeNotFound if no record matches.
func (s *Store[T]) GetByIndex(ctx context.Context, index string, value any) (Record[T], error) {
	spec, err := s.index("get by index", index)
	if err != nil {
		return Record[T]{}, err
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, value
		FROM records
		WHERE %s = ?
		ORDER BY id ASC
		LIMIT 1
	`, spec.expr()), value)

	rec, err := scanRecordRow[T](row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record[T]{}, indexError(ErrCodeNotFound, "get by index", index, fmt.Errorf("no record with value %v", value))
	}
	if err != nil {
		return Record[T]{}, fmt.Errorf("get by index %q: %w", index, err)
	}
	return rec, nil
}

// FindByIndex returns the records whose index value lies in [lower, upper],
// ordered ascending by index value, then key.
//
// A nil upper bound leaves the range open: every record with an index value
// >= lower matches. lower is required; a nil lower bound is an error.
// Returns an empty slice (not nil) when nothing matches and
// ErrCodeUnknownIndex if the index was never declared.
func (s *Store[T]) FindByIndex(ctx context.Context, index string, lower, upper any) ([]Record[T], error) {
	spec, err := s.index("find by index", index)
	if err != nil {
		return nil, err
	}
	if lower == nil {
		return nil, fmt.Errorf("find by index %q: lower bound is required", index)
	}

	expr := spec.expr()
	var rows *sql.Rows
	if upper == nil {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, value
			FROM records
			WHERE %[1]s >= ?
			ORDER BY %[1]s ASC, id ASC
		`, expr), lower)
	} else {
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, value
			FROM records
			WHERE %[1]s BETWEEN ? AND ?
			ORDER BY %[1]s ASC, id ASC
		`, expr), lower, upper)
	}
	if err != nil {
		return nil, fmt.Errorf("find by index %q: query records: %w", index, err)
	}
	defer rows.Close()

	records, err := collectRecords[T](rows)
	if err != nil {
		return nil, fmt.Errorf("find by index %q: %w", index, err)
	}
	return records, nil
}

// GetLastBefore returns the record with the greatest index value strictly
// below bound. Among equal index values the highest key wins.
//
// Returns ErrCodeUnknownIndex if the index was never declared and
// ErrCodeNotFound if no record lies below bound.
func (s *Store[T]) GetLastBefore(ctx context.Context, index string, bound any) (Record[T], error) {
	spec, err := s.index("get last before", index)
	if err != nil {
		return Record[T]{}, err
	}
	if bound == nil {
		return Record[T]{}, fmt.Errorf("get last before %q: bound is required", index)
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, value
		FROM records
		WHERE %[1]s < ?
		ORDER BY %[1]s DESC, id DESC
		LIMIT 1
	`, spec.expr()), bound)

	rec, err := scanRecordRow[T](row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record[T]{}, indexError(ErrCodeNotFound, "get last before", index, fmt.Errorf("no record below %v", bound))
	}
	if err != nil {
		return Record[T]{}, fmt.Errorf("get last before %q: %w", index, err)
	}
	return rec, nil
}

// GetAll returns every record in key (insertion) order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store[T]) GetAll(ctx context.Context) ([]Record[T], error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, value
		FROM records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all: query records: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords[T](rows)
	if err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store[T]) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func collectRecords[T any](rows *sql.Rows) ([]Record[T], error) {
	records := []Record[T]{}
	for rows.Next() {
		rec, err := scanRecord[T](rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// scanRecord scans a row into a keyed Record.
func scanRecord[T any](rows *sql.Rows) (Record[T], error) {
	var key int64
	var data string
	if err := rows.Scan(&key, &data); err != nil {
		return Record[T]{}, fmt.Errorf("scan record: %w", err)
	}

	v, err := unmarshalValue[T](data)
	if err != nil {
		return Record[T]{}, fmt.Errorf("record %d: %w", key, err)
	}
	return keyedRecord(key, v), nil
}

// scanRecordRow scans a single row into a keyed Record.
// Returns sql.ErrNoRows unwrapped so callers can map it to ErrCodeNotFound.
func scanRecordRow[T any](row *sql.Row) (Record[T], error) {
	var key int64
	var data string
	if err := row.Scan(&key, &data); err != nil {
		return Record[T]{}, err
	}

	v, err := unmarshalValue[T](data)
	if err != nil {
		return Record[T]{}, fmt.Errorf("record %d: %w", key, err)
	}
	return keyedRecord(key, v), nil
}
