// Package goCred provides credential validation and password-hash management:
// changeset-based email and password validation, pluggable hash/verify methods,
// and a commit layer that defers identifier uniqueness to Redis-backed
// reservations and the caller's user store.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goCred is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (UserRecord, MetricsSnapshot, etc.). Reusable building blocks live in the changeset
// and password subpackages; internal coordination (identity normalization) lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Persist plaintext passwords: password, confirm_password, and current_password are
//     transient changeset fields that never reach a [UserProvider].
//   - Import any sub-package that re-imports goCred (no import cycles).
//
// # Validation contract
//
// Validators never fail the call for a domain error. Every entry point returns a
// changeset, possibly invalid, with field-tagged messages accumulated; Go errors are
// reserved for infrastructure failures (store unavailable, engine misconfigured).
package goCred
