package goCred

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the credential engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUserNotFound is an exported constant or variable used by the credential engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is an exported constant or variable used by the credential engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrChangesetInvalid is an exported constant or variable used by the credential engine.
	ErrChangesetInvalid = errors.New("changeset invalid")
	// ErrNoChanges is an exported constant or variable used by the credential engine.
	ErrNoChanges = errors.New("changeset has no persistable changes")
	// ErrCommitUnavailable is an exported constant or variable used by the credential engine.
	ErrCommitUnavailable = errors.New("commit backend unavailable")
	// ErrReauthRateLimited is an exported constant or variable used by the credential engine.
	ErrReauthRateLimited = errors.New("current password attempts rate limited")
	// ErrReauthDisabled is an exported constant or variable used by the credential engine.
	ErrReauthDisabled = errors.New("re-auth tokens disabled")
	// ErrReauthInvalid is an exported constant or variable used by the credential engine.
	ErrReauthInvalid = errors.New("invalid re-auth token")
	// ErrAuthenticateRateLimited is an exported constant or variable used by the credential engine.
	ErrAuthenticateRateLimited = errors.New("authentication rate limited")
	// ErrProviderDuplicateEmail is an exported constant or variable used by the credential engine.
	ErrProviderDuplicateEmail = errors.New("provider duplicate email")
)
