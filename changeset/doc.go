// Package changeset implements an accumulating validation result for user records.
//
// A [Changeset] wraps a source [Record], a map of proposed field changes, and a map of
// field-tagged error messages. Each validation step reads the current field view
// (change if present, record value otherwise), attaches errors without aborting the
// pipeline, and returns the changeset for chaining. A changeset is valid exactly when
// its error map is empty.
//
// # Architecture boundaries
//
// This package owns field casting, the built-in validators (required, length, format,
// confirmation), and deferred unique-constraint declarations. It performs no I/O:
// hashing, uniqueness checks, and persistence belong to the Engine and its commit layer.
//
// # What this package must NOT do
//
//   - Persist anything or touch Redis — constraints are declarations, not checks.
//   - Mutate the caller's record: New copies it, Apply derives a new one.
//   - Import any other goCred package.
package changeset
