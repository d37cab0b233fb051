package register

import (
	"context"

	"github.com/roach88/timetrack/internal/store"
)

// MomentsIndex is the store index over CheckEventRecord.Moment.
const MomentsIndex = "idx_moments"

// EventStore is the persistence the register needs.
// *store.Store[CheckEventRecord] satisfies it.
type EventStore interface {
	Add(ctx context.Context, rec CheckEventRecord) (store.Record[CheckEventRecord], error)
	GetLast(ctx context.Context) (store.Record[CheckEventRecord], error)
	GetByIndex(ctx context.Context, index string, value any) (store.Record[CheckEventRecord], error)
	GetLastBefore(ctx context.Context, index string, bound any) (store.Record[CheckEventRecord], error)
	FindByIndex(ctx context.Context, index string, lower, upper any) ([]store.Record[CheckEventRecord], error)
	GetAll(ctx context.Context) ([]store.Record[CheckEventRecord], error)
	Count(ctx context.Context) (int, error)
}

// Indexes returns the index declarations a check event store is created with.
// Moments are not unique: two events may share a millisecond.
func Indexes() []store.IndexSpec {
	return []store.IndexSpec{
		{Name: MomentsIndex, Field: "moment", Unique: false},
	}
}

// OpenStore opens (or creates) the check event store at path.
func OpenStore(ctx context.Context, path string) (*store.Store[CheckEventRecord], error) {
	return store.Open[CheckEventRecord](ctx, path, Indexes()...)
}
