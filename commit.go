package goCred

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCred/changeset"
	"github.com/google/uuid"
)

// Commit persists a valid changeset through the user provider. An email change
// first claims the normalized address in the reservation store; a lost claim or
// a provider duplicate arrives back on the changeset as "has already been taken"
// on the email field, paired with ErrChangesetInvalid. Infrastructure failures
// return ErrCommitUnavailable.
//
// An empty UserID on the source record makes Commit a create; otherwise each
// persistable change dispatches to its provider update.
func (e *Engine) Commit(ctx context.Context, cs *changeset.Changeset) (UserRecord, *changeset.Changeset, error) {
	if e == nil || e.userProvider == nil {
		return UserRecord{}, cs, ErrEngineNotReady
	}

	if !cs.Valid() {
		return UserRecord{}, cs, ErrChangesetInvalid
	}

	changes := cs.Changes()
	if len(changes) == 0 {
		return UserRecord{}, cs, ErrNoChanges
	}

	data := cs.Data()
	tenantID := data.TenantID
	if tenantID == "" {
		tenantID = tenantIDFromContext(ctx)
	}

	email, emailChanged := changes[changeset.FieldEmail]

	var reserved bool
	if emailChanged && constraintDeclared(cs, changeset.FieldEmail) {
		owner := data.UserID
		if owner == "" {
			owner = uuid.NewString()
		}

		if err := e.identStore.Claim(ctx, tenantID, email, owner); err != nil {
			if errors.Is(err, errIdentTaken) {
				e.metricInc(MetricCommitConflict)
				e.emitAudit(ctx, auditEventCommitConflict, false, data.UserID, tenantID, ErrChangesetInvalid, func() map[string]string {
					return map[string]string{
						"email": email,
					}
				})
				cs.AddError(changeset.FieldEmail, changeset.MsgTaken)
				return UserRecord{}, cs, ErrChangesetInvalid
			}
			e.metricInc(MetricCommitFailure)
			e.emitAudit(ctx, auditEventCommitFailure, false, data.UserID, tenantID, ErrCommitUnavailable, nil)
			return UserRecord{}, cs, fmt.Errorf("%w: %v", ErrCommitUnavailable, err)
		}
		reserved = true
	}

	releaseOnFailure := func() {
		if reserved {
			// Failed commits give the address back immediately instead of
			// holding it for the reservation TTL.
			_ = e.identStore.Release(ctx, tenantID, email)
		}
	}

	if data.UserID == "" {
		created, err := e.userProvider.CreateUser(ctx, CreateUserInput{
			TenantID:     tenantID,
			Email:        cs.GetField(changeset.FieldEmail),
			PasswordHash: cs.GetField(changeset.FieldPasswordHash),
		})
		if err != nil {
			releaseOnFailure()
			if errors.Is(err, ErrProviderDuplicateEmail) {
				e.metricInc(MetricCommitConflict)
				e.emitAudit(ctx, auditEventCommitConflict, false, "", tenantID, err, nil)
				cs.AddError(changeset.FieldEmail, changeset.MsgTaken)
				return UserRecord{}, cs, ErrChangesetInvalid
			}
			e.metricInc(MetricCommitFailure)
			e.emitAudit(ctx, auditEventCommitFailure, false, "", tenantID, ErrCommitUnavailable, nil)
			return UserRecord{}, cs, fmt.Errorf("%w: %v", ErrCommitUnavailable, err)
		}

		e.metricInc(MetricCommitSuccess)
		return created, cs, nil
	}

	if emailChanged {
		if err := e.userProvider.UpdateEmail(ctx, data.UserID, email); err != nil {
			releaseOnFailure()
			if errors.Is(err, ErrProviderDuplicateEmail) {
				e.metricInc(MetricCommitConflict)
				e.emitAudit(ctx, auditEventCommitConflict, false, data.UserID, tenantID, err, nil)
				cs.AddError(changeset.FieldEmail, changeset.MsgTaken)
				return UserRecord{}, cs, ErrChangesetInvalid
			}
			e.metricInc(MetricCommitFailure)
			e.emitAudit(ctx, auditEventCommitFailure, false, data.UserID, tenantID, ErrCommitUnavailable, nil)
			return UserRecord{}, cs, fmt.Errorf("%w: %v", ErrCommitUnavailable, err)
		}
	}

	if newHash, ok := changes[changeset.FieldPasswordHash]; ok {
		if err := e.userProvider.UpdatePasswordHash(ctx, data.UserID, newHash); err != nil {
			releaseOnFailure()
			e.metricInc(MetricCommitFailure)
			e.emitAudit(ctx, auditEventCommitFailure, false, data.UserID, tenantID, ErrCommitUnavailable, nil)
			return UserRecord{}, cs, fmt.Errorf("%w: %v", ErrCommitUnavailable, err)
		}
	}

	e.metricInc(MetricCommitSuccess)

	rec := cs.Apply()
	return UserRecord{
		UserID:       rec.UserID,
		TenantID:     tenantID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
	}, cs, nil
}

func constraintDeclared(cs *changeset.Changeset, field string) bool {
	for _, declared := range cs.Constraints() {
		if declared == field {
			return true
		}
	}
	return false
}
