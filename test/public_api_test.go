package test

import (
	"context"
	"testing"

	goCred "github.com/MrEthical07/goCred"
	"github.com/MrEthical07/goCred/changeset"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goCred.New

	var _ *goCred.Engine
	var _ goCred.Config
	var _ goCred.UserRecord
	var _ goCred.CreateUserInput
	var _ goCred.UserProvider
	var _ goCred.AuditSink
	var _ goCred.AuditEvent
	var _ goCred.MetricsSnapshot

	var _ error = goCred.ErrEngineNotReady
	var _ error = goCred.ErrUserNotFound
	var _ error = goCred.ErrInvalidCredentials
	var _ error = goCred.ErrChangesetInvalid
	var _ error = goCred.ErrNoChanges
	var _ error = goCred.ErrCommitUnavailable
	var _ error = goCred.ErrReauthRateLimited
	var _ error = goCred.ErrReauthDisabled
	var _ error = goCred.ErrReauthInvalid
	var _ error = goCred.ErrAuthenticateRateLimited
	var _ error = goCred.ErrProviderDuplicateEmail

	var _ func(*goCred.Engine, goCred.UserRecord, map[string]string) *changeset.Changeset = (*goCred.Engine).EmailChangeset
	var _ func(*goCred.Engine, goCred.UserRecord, map[string]string) *changeset.Changeset = (*goCred.Engine).PasswordChangeset
	var _ func(*goCred.Engine, goCred.UserRecord, map[string]string) *changeset.Changeset = (*goCred.Engine).RegistrationChangeset
	var _ func(*goCred.Engine, context.Context, string, string) (goCred.UserRecord, error) = (*goCred.Engine).Authenticate
	var _ func(*goCred.Engine, context.Context, map[string]string) (goCred.UserRecord, *changeset.Changeset, error) = (*goCred.Engine).RegisterUser
	var _ func(*goCred.Engine, context.Context, string, map[string]string) (*changeset.Changeset, error) = (*goCred.Engine).UpdateEmail
	var _ func(*goCred.Engine, context.Context, string, map[string]string) (*changeset.Changeset, error) = (*goCred.Engine).UpdatePassword
	var _ func(*goCred.Engine, context.Context, string, map[string]string) (string, *changeset.Changeset, error) = (*goCred.Engine).ConfirmIdentity
	var _ func(*goCred.Engine, context.Context, *changeset.Changeset) (goCred.UserRecord, *changeset.Changeset, error) = (*goCred.Engine).Commit
}
