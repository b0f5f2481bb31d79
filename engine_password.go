package goCred

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goCred/changeset"
)

/*
====================================
PASSWORD PIPELINE
====================================
*/

// validatePassword runs the ordered password pipeline on an already-cast
// changeset. Plaintext fields are transient; when hashPassword is set and the
// changeset is still valid, the plaintext is exchanged for a password_hash
// change before returning.
func (e *Engine) validatePassword(cs *changeset.Changeset, hashPassword bool) *changeset.Changeset {
	cs.MarkTransient(changeset.FieldPassword, changeset.FieldConfirmPassword)

	// A password is mandatory only for accounts that never had one.
	if cs.Data().PasswordHash == "" {
		cs.ValidateRequired(changeset.FieldPassword)
	}

	cs.ValidateLength(changeset.FieldPassword, e.config.Password.MinLength, e.config.Password.MaxLength)
	cs.ValidateConfirmation(changeset.FieldPassword, changeset.FieldConfirmPassword, changeset.MsgNotSamePassword)

	if hashPassword {
		cs = e.hashPasswordChange(cs)
		if cs.Valid() {
			cs.ValidateRequired(changeset.FieldPasswordHash)
		}
	}

	return cs
}

func (e *Engine) hashPasswordChange(cs *changeset.Changeset) *changeset.Changeset {
	value, ok := cs.GetChange(changeset.FieldPassword)
	if !ok || !cs.Valid() {
		return cs
	}

	start := time.Now()
	hash, err := e.hashMethods.Hash(value)
	e.metricObserve(MetricHashLatency, time.Since(start))
	if err != nil {
		cs.AddError(changeset.FieldPassword, changeset.MsgInvalid)
		return cs
	}

	cs.PutChange(changeset.FieldPasswordHash, hash)
	cs.DeleteChange(changeset.FieldPassword)
	cs.DeleteChange(changeset.FieldConfirmPassword)

	return cs
}

/*
====================================
CURRENT PASSWORD PIPELINE
====================================
*/

// CurrentPasswordChangeset casts and verifies the current_password field
// against the stored hash. Accounts without a stored hash skip the check
// entirely. The returned error covers throttling and backend failures only;
// a wrong password is a field error on the changeset.
func (e *Engine) CurrentPasswordChangeset(ctx context.Context, user UserRecord, input map[string]string) (*changeset.Changeset, error) {
	cs := e.Changeset(user).Cast(input, changeset.FieldCurrentPassword)
	return e.validateCurrentPassword(ctx, user, cs)
}

func (e *Engine) validateCurrentPassword(ctx context.Context, user UserRecord, cs *changeset.Changeset) (*changeset.Changeset, error) {
	cs.MarkTransient(changeset.FieldCurrentPassword)

	// Accounts provisioned through an external identity provider carry no hash
	// and cannot re-enter a password; the gate does not apply to them.
	if user.PasswordHash == "" {
		return cs, nil
	}

	value, ok := cs.GetChange(changeset.FieldCurrentPassword)
	if !ok || value == "" {
		cs.AddError(changeset.FieldCurrentPassword, changeset.MsgBlank)
		return cs, nil
	}

	tenantID := tenantIDFromContext(ctx)
	if user.TenantID != "" {
		tenantID = user.TenantID
	}
	ip := clientIPFromContext(ctx)

	if e.attemptLimiter != nil {
		if err := e.attemptLimiter.Check(ctx, tenantID, user.Email, ip); err != nil {
			if errors.Is(err, errAttemptRateLimited) {
				e.metricInc(MetricCurrentPasswordRateLimited)
				e.emitAudit(ctx, auditEventCredentialRateLimited, false, user.UserID, tenantID, ErrReauthRateLimited, nil)
				return cs, ErrReauthRateLimited
			}
			return cs, err
		}
	}

	ok, err := e.hashMethods.Verify(value, user.PasswordHash)
	if err != nil || !ok {
		if e.attemptLimiter != nil {
			if recErr := e.attemptLimiter.RecordFailure(ctx, tenantID, user.Email, ip); recErr != nil {
				if errors.Is(recErr, errAttemptRateLimited) {
					e.metricInc(MetricCurrentPasswordRateLimited)
					e.emitAudit(ctx, auditEventCredentialRateLimited, false, user.UserID, tenantID, ErrReauthRateLimited, nil)
					return cs, ErrReauthRateLimited
				}
				return cs, recErr
			}
		}
		e.metricInc(MetricCurrentPasswordInvalid)
		e.emitAudit(ctx, auditEventCurrentPasswordInvalid, false, user.UserID, tenantID, ErrInvalidCredentials, nil)
		cs.AddError(changeset.FieldCurrentPassword, changeset.MsgInvalid)
		return cs, nil
	}

	if e.attemptLimiter != nil {
		// Limiter reset is best-effort; a stale counter only shortens the window.
		_ = e.attemptLimiter.Reset(ctx, tenantID, user.Email, ip)
	}

	e.metricInc(MetricCurrentPasswordOK)

	return cs, nil
}

/*
====================================
ENGINE OPERATIONS
====================================
*/

// UpdatePassword gates a password change on the account's current password,
// validates and hashes the new one, and commits the resulting hash.
func (e *Engine) UpdatePassword(ctx context.Context, userID string, input map[string]string) (*changeset.Changeset, error) {
	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, userID, "", ErrUserNotFound, nil)
		return nil, ErrUserNotFound
	}

	cs := e.Changeset(user).Cast(input,
		changeset.FieldPassword,
		changeset.FieldConfirmPassword,
		changeset.FieldCurrentPassword,
	)

	cs, err = e.validateCurrentPassword(ctx, user, cs)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return nil, err
	}

	cs = e.validatePassword(cs, true)

	_, cs, err = e.Commit(ctx, cs)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return cs, err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, user.UserID, user.TenantID, nil, nil)

	return cs, nil
}

// UpdatePasswordWithReauthToken is UpdatePassword with a previously issued
// re-auth token standing in for the current password.
func (e *Engine) UpdatePasswordWithReauthToken(ctx context.Context, userID, token string, input map[string]string) (*changeset.Changeset, error) {
	if err := e.verifyReauthToken(token, userID); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, userID, "", err, nil)
		return nil, err
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, userID, "", ErrUserNotFound, nil)
		return nil, ErrUserNotFound
	}

	cs := e.Changeset(user).Cast(input, changeset.FieldPassword, changeset.FieldConfirmPassword)
	cs = e.validatePassword(cs, true)

	_, cs, err = e.Commit(ctx, cs)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return cs, err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, user.UserID, user.TenantID, nil, nil)

	return cs, nil
}
