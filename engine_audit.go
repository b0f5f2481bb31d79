package goCred

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRegisterSuccess        = "register_success"
	auditEventRegisterFailure        = "register_failure"
	auditEventRegisterDuplicate      = "register_duplicate"
	auditEventEmailChangeSuccess     = "email_change_success"
	auditEventEmailChangeFailure     = "email_change_failure"
	auditEventEmailChangeDuplicate   = "email_change_duplicate"
	auditEventPasswordChangeSuccess  = "password_change_success"
	auditEventPasswordChangeFailure  = "password_change_failure"
	auditEventCurrentPasswordInvalid = "current_password_invalid"
	auditEventCredentialRateLimited  = "credential_rate_limited"
	auditEventAuthenticateSuccess    = "authenticate_success"
	auditEventAuthenticateFailure    = "authenticate_failure"
	auditEventReauthTokenIssued      = "reauth_token_issued"
	auditEventCommitConflict         = "commit_conflict"
	auditEventCommitFailure          = "commit_failure"
)

// AuditErrorCode defines a public type used by goCred APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrChangesetInvalid   AuditErrorCode = "changeset_invalid"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrReauthInvalid      AuditErrorCode = "reauth_invalid"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	tenantID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}
	if tenantID == "" {
		tenantID = tenantIDFromContext(ctx)
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		TenantID:  tenantID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrReauthRateLimited),
		errors.Is(err, ErrAuthenticateRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrChangesetInvalid),
		errors.Is(err, ErrNoChanges):
		return auditErrChangesetInvalid
	case errors.Is(err, ErrProviderDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrReauthInvalid),
		errors.Is(err, ErrReauthDisabled):
		return auditErrReauthInvalid
	case errors.Is(err, ErrCommitUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
