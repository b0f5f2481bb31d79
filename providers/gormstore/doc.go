// Package gormstore is a reference [goCred.UserProvider] backed by GORM.
//
// Duplicate tenant+email rows surface as [goCred.ErrProviderDuplicateEmail] so the
// commit layer can attach the conflict to the changeset. The store never sees
// plaintext passwords; it stores whatever encoded hash the engine hands it.
//
// The dialect must be configured with TranslateError enabled for duplicate-key
// translation to work (sqlite and the first-party drivers support it).
package gormstore
