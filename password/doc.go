// Package password implements password hashing and verification with PBKDF2 defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$pbkdf2-sha256$i=<iterations>$<salt>$<hash>
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Every implementation supports transparent parameter upgrades: if the stored hash was
// produced with weaker parameters, NeedsRehash returns true so the caller can re-hash
// on the next successful verification.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length bounds,
// confirmation, required-ness) is enforced by the changeset pipeline.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other goCred package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
