package goCred

import (
	"context"
	"errors"

	"github.com/MrEthical07/goCred/changeset"
)

// RegisterUser validates a fresh email+password pair and creates the account
// through the user provider. A duplicate address, whether caught by the
// reservation store or by the provider's unique index, comes back as
// "has already been taken" on the email field with ErrChangesetInvalid.
func (e *Engine) RegisterUser(ctx context.Context, input map[string]string) (UserRecord, *changeset.Changeset, error) {
	tenantID := tenantIDFromContext(ctx)

	cs := e.RegistrationChangeset(UserRecord{TenantID: tenantID}, input)

	created, cs, err := e.Commit(ctx, cs)
	if err != nil {
		if errors.Is(err, ErrChangesetInvalid) && fieldTaken(cs, changeset.FieldEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", tenantID, ErrProviderDuplicateEmail, func() map[string]string {
				return map[string]string{
					"email": cs.GetField(changeset.FieldEmail),
				}
			})
			return UserRecord{}, cs, err
		}

		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", tenantID, err, nil)
		return UserRecord{}, cs, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, created.UserID, created.TenantID, nil, func() map[string]string {
		return map[string]string{
			"email": created.Email,
		}
	})

	return created, cs, nil
}

func fieldTaken(cs *changeset.Changeset, field string) bool {
	if cs == nil {
		return false
	}
	for _, msg := range cs.FieldErrors(field) {
		if msg == changeset.MsgTaken {
			return true
		}
	}
	return false
}
