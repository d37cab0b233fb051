// Package store provides SQLite-backed generic record storage.
//
// A store holds values of a single Go type T in one collection. Every value
// is serialized to JSON and keyed by an auto-incrementing integer primary key
// that is never reused. Named secondary indexes project a JSON field of the
// stored value and can be declared unique.
//
// # Schema Lifecycle
//
// Opening a store is idempotent. The first open of a database file creates
// the collection and builds the declared indexes in one transaction. Any
// later open reuses the existing schema and ignores the index declarations
// it is given: there is no implicit migration, so changing the index set of
// an existing store requires an explicit migration outside this package.
//
// # Ordering
//
//   - GetAll returns records in key (insertion) order
//   - FindByIndex returns records ordered by index value, then key
//   - GetByIndex returns the lowest-keyed record with an equal index value
//   - GetLastBefore returns the highest index value below a bound, then the
//     highest key
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - single open connection: SQLite has one writer
//
// Every operation is atomic on its own; no cross-operation transactions are
// exposed.
package store
