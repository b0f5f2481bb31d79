package goCred

import (
	"time"

	"github.com/MrEthical07/goCred/changeset"
	"github.com/MrEthical07/goCred/jwt"
	"github.com/MrEthical07/goCred/password"
)

// Engine defines a public type used by goCred APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config         Config
	hashMethods    password.Methods
	identStore     *identReservationStore
	attemptLimiter *credentialAttemptLimiter
	audit          *auditDispatcher
	metrics        *Metrics
	reauthTokens   *jwt.Manager
	userProvider   UserProvider
	dummyHash      string
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, d)
}

/*
====================================
CHANGESET ENTRY POINTS
====================================
*/

// Changeset starts an empty changeset over the user's current record. Callers
// compose validators on it through the other entry points or directly through
// the changeset package.
func (e *Engine) Changeset(user UserRecord) *changeset.Changeset {
	return changeset.New(user.changesetRecord())
}

// EmailChangeset casts and validates an email change. The returned changeset
// carries field errors instead of a Go error; uniqueness is registered as a
// deferred constraint and checked during Commit.
func (e *Engine) EmailChangeset(user UserRecord, input map[string]string) *changeset.Changeset {
	cs := e.Changeset(user).Cast(input, changeset.FieldEmail)
	return e.validateEmail(cs)
}

// PasswordChangeset casts and validates a password change, hashing the new
// password into a password_hash change when all validations pass. The plaintext
// fields are transient and never persisted.
func (e *Engine) PasswordChangeset(user UserRecord, input map[string]string) *changeset.Changeset {
	cs := e.Changeset(user).Cast(input, changeset.FieldPassword, changeset.FieldConfirmPassword)
	return e.validatePassword(cs, true)
}

// PasswordValidationChangeset runs the password pipeline without the hashing
// step. Useful for live validation endpoints that only report errors.
func (e *Engine) PasswordValidationChangeset(user UserRecord, input map[string]string) *changeset.Changeset {
	cs := e.Changeset(user).Cast(input, changeset.FieldPassword, changeset.FieldConfirmPassword)
	return e.validatePassword(cs, false)
}

// RegistrationChangeset combines the email and password pipelines over a fresh
// record, producing the changeset Commit turns into a CreateUser call.
func (e *Engine) RegistrationChangeset(user UserRecord, input map[string]string) *changeset.Changeset {
	cs := e.Changeset(user).Cast(input,
		changeset.FieldEmail,
		changeset.FieldPassword,
		changeset.FieldConfirmPassword,
	)
	cs = e.validateEmail(cs)
	return e.validatePassword(cs, true)
}
