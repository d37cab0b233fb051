package store

import (
	"fmt"
	"regexp"
)

// Record wraps a stored value with its primary key.
//
// The key is assigned by the store on insert and is absent otherwise; there
// is no way to set it from outside this package.
type Record[T any] struct {
	Value T

	key   int64
	keyed bool
}

// NewRecord wraps v in a record without a key.
func NewRecord[T any](v T) Record[T] {
	return Record[T]{Value: v}
}

// Key returns the primary key and whether one has been assigned.
func (r Record[T]) Key() (int64, bool) {
	return r.key, r.keyed
}

func keyedRecord[T any](key int64, v T) Record[T] {
	return Record[T]{Value: v, key: key, keyed: true}
}

// Values unwraps a slice of records, preserving order.
func Values[T any](records []Record[T]) []T {
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}

// IndexSpec declares a secondary index over a field of the stored value.
type IndexSpec struct {
	// Name identifies the index in queries.
	Name string `yaml:"name" json:"name"`

	// Field is the JSON field path of the stored value, dot separated for
	// nested objects (e.g. "moment" or "meta.source").
	Field string `yaml:"field" json:"field"`

	// Unique rejects inserts that repeat an existing field value.
	Unique bool `yaml:"unique" json:"unique"`
}

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	fieldRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// validate checks that the declaration is safe to splice into SQL.
func (s IndexSpec) validate() error {
	if !identRe.MatchString(s.Name) {
		return fmt.Errorf("invalid index name %q", s.Name)
	}
	if !fieldRe.MatchString(s.Field) {
		return fmt.Errorf("invalid field path %q for index %q", s.Field, s.Name)
	}
	return nil
}

// expr is the SQL expression an index is built on. Queries must use the same
// text for SQLite to pick the index.
func (s IndexSpec) expr() string {
	return fmt.Sprintf("json_extract(value, '$.%s')", s.Field)
}

func (s IndexSpec) physicalName() string {
	return "ix_" + s.Name
}

func validateIndexes(specs []IndexSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return err
		}
		if seen[spec.Name] {
			return fmt.Errorf("duplicate index name %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}
