package goCred

import (
	"context"
	"errors"

	"github.com/MrEthical07/goCred/changeset"
	"github.com/MrEthical07/goCred/internal/identity"
)

// Authenticate looks an account up by normalized email and verifies the
// password. Unknown addresses still pay for one verification against a
// throwaway hash so response timing does not reveal whether the account
// exists. Failed attempts feed the credential limiter.
func (e *Engine) Authenticate(ctx context.Context, email, plaintext string) (UserRecord, error) {
	if e == nil || e.userProvider == nil || !e.hashMethods.Usable() {
		return UserRecord{}, ErrEngineNotReady
	}

	tenantID := tenantIDFromContext(ctx)
	ip := clientIPFromContext(ctx)
	normalized := identity.Normalize(email)

	if e.attemptLimiter != nil {
		if err := e.attemptLimiter.Check(ctx, tenantID, normalized, ip); err != nil {
			if errors.Is(err, errAttemptRateLimited) {
				e.metricInc(MetricAuthenticateRateLimited)
				e.emitAudit(ctx, auditEventCredentialRateLimited, false, "", tenantID, ErrAuthenticateRateLimited, func() map[string]string {
					return map[string]string{
						"identifier": normalized,
					}
				})
				return UserRecord{}, ErrAuthenticateRateLimited
			}
			return UserRecord{}, err
		}
	}

	if plaintext == "" {
		return UserRecord{}, e.authenticateFailed(ctx, tenantID, normalized, ip, "", "empty_password")
	}

	user, err := e.userProvider.GetUserByEmail(ctx, tenantID, normalized)
	if err != nil {
		_, _ = e.hashMethods.Verify(plaintext, e.dummyHash)
		return UserRecord{}, e.authenticateFailed(ctx, tenantID, normalized, ip, "", "user_not_found")
	}

	if user.PasswordHash == "" {
		_, _ = e.hashMethods.Verify(plaintext, e.dummyHash)
		return UserRecord{}, e.authenticateFailed(ctx, tenantID, normalized, ip, user.UserID, "no_password_set")
	}

	ok, err := e.hashMethods.Verify(plaintext, user.PasswordHash)
	if err != nil || !ok {
		return UserRecord{}, e.authenticateFailed(ctx, tenantID, normalized, ip, user.UserID, "password_mismatch")
	}

	if e.attemptLimiter != nil {
		_ = e.attemptLimiter.Reset(ctx, tenantID, normalized, ip)
	}

	e.metricInc(MetricAuthenticateSuccess)
	e.emitAudit(ctx, auditEventAuthenticateSuccess, true, user.UserID, user.TenantID, nil, nil)

	return user, nil
}

func (e *Engine) authenticateFailed(ctx context.Context, tenantID, identifier, ip, userID, reason string) error {
	if e.attemptLimiter != nil {
		if err := e.attemptLimiter.RecordFailure(ctx, tenantID, identifier, ip); err != nil {
			if errors.Is(err, errAttemptRateLimited) {
				e.metricInc(MetricAuthenticateRateLimited)
				e.emitAudit(ctx, auditEventCredentialRateLimited, false, userID, tenantID, ErrAuthenticateRateLimited, nil)
				return ErrAuthenticateRateLimited
			}
			return err
		}
	}

	e.metricInc(MetricAuthenticateFailure)
	e.emitAudit(ctx, auditEventAuthenticateFailure, false, userID, tenantID, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
			"reason":     reason,
		}
	})

	return ErrInvalidCredentials
}

/*
====================================
RE-AUTH PROOF TOKENS
====================================
*/

// ConfirmIdentity verifies the account's current password and, on success,
// issues a short-lived signed token that later stands in for current_password
// in UpdateEmailWithReauthToken and UpdatePasswordWithReauthToken.
func (e *Engine) ConfirmIdentity(ctx context.Context, userID string, input map[string]string) (string, *changeset.Changeset, error) {
	if e == nil || e.userProvider == nil {
		return "", nil, ErrEngineNotReady
	}
	if e.reauthTokens == nil {
		return "", nil, ErrReauthDisabled
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	cs, err := e.CurrentPasswordChangeset(ctx, user, input)
	if err != nil {
		return "", cs, err
	}
	if !cs.Valid() {
		return "", cs, ErrChangesetInvalid
	}

	token, err := e.reauthTokens.CreateReauth(user.UserID, user.TenantID)
	if err != nil {
		return "", cs, err
	}

	e.metricInc(MetricReauthTokenIssued)
	e.emitAudit(ctx, auditEventReauthTokenIssued, true, user.UserID, user.TenantID, nil, nil)

	return token, cs, nil
}

func (e *Engine) verifyReauthToken(token, userID string) error {
	if e.reauthTokens == nil {
		return ErrReauthDisabled
	}

	claims, err := e.reauthTokens.ParseReauth(token)
	if err != nil {
		return ErrReauthInvalid
	}
	if claims.UID != userID {
		return ErrReauthInvalid
	}

	return nil
}
