package goCred

import (
	"context"
	"errors"

	"github.com/MrEthical07/goCred/changeset"
	"github.com/MrEthical07/goCred/internal/identity"
)

// validateEmail runs the identity pipeline on an already-cast changeset:
// normalize, required, format, max length, deferred uniqueness.
func (e *Engine) validateEmail(cs *changeset.Changeset) *changeset.Changeset {
	if raw, ok := cs.GetChange(changeset.IdentityField); ok {
		normalized := identity.Normalize(raw)
		if normalized == cs.Data().Email {
			// Different spelling of the current address is not a change.
			cs.DeleteChange(changeset.IdentityField)
		} else {
			cs.PutChange(changeset.IdentityField, normalized)
		}
	}

	cs.ValidateRequired(changeset.IdentityField)

	if value, ok := cs.GetChange(changeset.IdentityField); ok && value != "" {
		if !identity.ValidEmail(value) {
			cs.AddError(changeset.IdentityField, changeset.MsgInvalidFormat)
		}
	}

	cs.ValidateLength(changeset.IdentityField, 0, e.config.Identity.MaxLength)
	cs.UniqueConstraint(changeset.IdentityField)

	return cs
}

// ApplyEmailChange validates an email change without committing it. The returned
// record previews the result; callers inspect the changeset for field errors.
func (e *Engine) ApplyEmailChange(user UserRecord, input map[string]string) (UserRecord, *changeset.Changeset) {
	cs := e.EmailChangeset(user, input)
	return userFromRecord(user, cs.Apply()), cs
}

// UpdateEmail gates an email change on the account's current password, validates
// it, and commits. Field errors (including a commit-time uniqueness conflict)
// live on the returned changeset; the error covers infrastructure failures and
// the invalid-changeset signal.
func (e *Engine) UpdateEmail(ctx context.Context, userID string, input map[string]string) (*changeset.Changeset, error) {
	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, "", ErrUserNotFound, nil)
		return nil, ErrUserNotFound
	}

	cs := e.Changeset(user).Cast(input, changeset.FieldEmail, changeset.FieldCurrentPassword)

	cs, err = e.validateCurrentPassword(ctx, user, cs)
	if err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return nil, err
	}

	cs = e.validateEmail(cs)

	_, cs, err = e.Commit(ctx, cs)
	if err != nil {
		if errors.Is(err, ErrChangesetInvalid) && fieldTaken(cs, changeset.FieldEmail) {
			e.metricInc(MetricEmailChangeDuplicate)
			e.emitAudit(ctx, auditEventEmailChangeDuplicate, false, user.UserID, user.TenantID, ErrProviderDuplicateEmail, nil)
			return cs, err
		}
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return cs, err
	}

	e.metricInc(MetricEmailChangeSuccess)
	e.emitAudit(ctx, auditEventEmailChangeSuccess, true, user.UserID, user.TenantID, nil, func() map[string]string {
		return map[string]string{
			"email": cs.GetField(changeset.FieldEmail),
		}
	})

	return cs, nil
}

// UpdateEmailWithReauthToken is UpdateEmail with a previously issued re-auth
// token standing in for the current password.
func (e *Engine) UpdateEmailWithReauthToken(ctx context.Context, userID, token string, input map[string]string) (*changeset.Changeset, error) {
	if err := e.verifyReauthToken(token, userID); err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, "", err, nil)
		return nil, err
	}

	user, err := e.userProvider.GetUserByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, "", ErrUserNotFound, nil)
		return nil, ErrUserNotFound
	}

	cs := e.Changeset(user).Cast(input, changeset.FieldEmail)
	cs = e.validateEmail(cs)

	_, cs, err = e.Commit(ctx, cs)
	if err != nil {
		if errors.Is(err, ErrChangesetInvalid) && fieldTaken(cs, changeset.FieldEmail) {
			e.metricInc(MetricEmailChangeDuplicate)
			e.emitAudit(ctx, auditEventEmailChangeDuplicate, false, user.UserID, user.TenantID, ErrProviderDuplicateEmail, nil)
			return cs, err
		}
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.UserID, user.TenantID, err, nil)
		return cs, err
	}

	e.metricInc(MetricEmailChangeSuccess)
	e.emitAudit(ctx, auditEventEmailChangeSuccess, true, user.UserID, user.TenantID, nil, nil)

	return cs, nil
}
