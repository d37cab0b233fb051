// Package register implements the check-in / check-out state machine of a
// single user's work-time tracker.
//
// A Register strictly alternates check-in and check-out operations. Every
// accepted operation is persisted to an EventStore before any in-memory state
// changes, so a failed write never leaves memory and storage disagreeing.
//
// ACCEPT PROCEDURE (AutoCheck and validated ManualCheck):
//  1. Persist the record (failure → ErrCodePersistence, nothing else happens)
//  2. Update last operation, last change, current state, pending sync count
//  3. Notify subscribers synchronously, in subscription order
//
// CONCURRENCY:
// The accept procedure runs under an internal mutex and manual records are
// re-validated inside it, so two concurrent manual checks cannot both pass
// validation against the same state. Subscribers run after the mutex is
// released and may call back into the register.
//
// Registers are constructed explicitly with New and owned by the caller;
// there is no package-level instance.
package register
