package changeset

import (
	"fmt"
	"regexp"
	"sort"
)

/*
====================================
FIELD NAMES
====================================
*/

const (
	// FieldEmail is an exported constant or variable used by the credential validator.
	FieldEmail = "email"
	// FieldPassword is an exported constant or variable used by the credential validator.
	FieldPassword = "password"
	// FieldConfirmPassword is an exported constant or variable used by the credential validator.
	FieldConfirmPassword = "confirm_password"
	// FieldCurrentPassword is an exported constant or variable used by the credential validator.
	FieldCurrentPassword = "current_password"
	// FieldPasswordHash is an exported constant or variable used by the credential validator.
	FieldPasswordHash = "password_hash"
)

// IdentityField is the declared identity field name for user records.
// It is record metadata: validators ask the record type, not the input map,
// which field identifies an account.
const IdentityField = FieldEmail

/*
====================================
ERROR MESSAGES
====================================
*/

const (
	// MsgBlank is an exported constant or variable used by the credential validator.
	MsgBlank = "can't be blank"
	// MsgInvalidFormat is an exported constant or variable used by the credential validator.
	MsgInvalidFormat = "has invalid format"
	// MsgNotSamePassword is an exported constant or variable used by the credential validator.
	MsgNotSamePassword = "not same as password"
	// MsgInvalid is an exported constant or variable used by the credential validator.
	MsgInvalid = "is invalid"
	// MsgTaken is an exported constant or variable used by the credential validator.
	MsgTaken = "has already been taken"
)

// Record is the minimal user view a changeset validates against. Field values are
// addressed by name so validators and the commit layer share one vocabulary.
type Record struct {
	UserID       string
	TenantID     string
	Email        string
	PasswordHash string
}

func (r Record) fieldValue(field string) (string, bool) {
	switch field {
	case FieldEmail:
		return r.Email, true
	case FieldPasswordHash:
		return r.PasswordHash, true
	default:
		return "", false
	}
}

// Changeset defines a public type used by goCred APIs.
//
// Changeset instances accumulate changes and field-tagged errors across a validation
// pipeline. Methods return the receiver for chaining; the source record is copied at
// construction and never mutated.
type Changeset struct {
	data        Record
	changes     map[string]string
	errors      map[string][]string
	constraints []string
	transient   map[string]struct{}
}

// New describes the new operation and its observable behavior.
//
// New copies the given record into a fresh changeset with no changes and no errors.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(data Record) *Changeset {
	return &Changeset{
		data:      data,
		changes:   make(map[string]string),
		errors:    make(map[string][]string),
		transient: make(map[string]struct{}),
	}
}

// Data describes the data operation and its observable behavior.
//
// Data returns the source record the changeset was constructed from.
// Data does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Data() Record {
	return c.data
}

// Valid describes the valid operation and its observable behavior.
//
// Valid reports whether the error map is empty. It is derived state, never set directly.
// Valid does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Valid() bool {
	return len(c.errors) == 0
}

/*
====================================
CAST + CHANGE ACCESS
====================================
*/

// Cast describes the cast operation and its observable behavior.
//
// Cast accepts only the listed fields from the input map. An empty submitted value or
// a value equal to the record's current value is not recorded as a change; absent
// fields cast nothing. Required fields dropped here still fail ValidateRequired
// through the record view.
// Cast does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Cast(input map[string]string, fields ...string) *Changeset {
	for _, field := range fields {
		value, ok := input[field]
		if !ok || value == "" {
			continue
		}
		if current, known := c.data.fieldValue(field); known && current == value {
			continue
		}
		c.changes[field] = value
	}
	return c
}

// GetChange describes the getchange operation and its observable behavior.
//
// GetChange returns the proposed change for a field, reporting whether one exists.
// GetChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) GetChange(field string) (string, bool) {
	value, ok := c.changes[field]
	return value, ok
}

// GetField describes the getfield operation and its observable behavior.
//
// GetField returns the current view of a field: the proposed change when present,
// the record value otherwise.
// GetField does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) GetField(field string) string {
	if value, ok := c.changes[field]; ok {
		return value
	}
	value, _ := c.data.fieldValue(field)
	return value
}

// PutChange describes the putchange operation and its observable behavior.
//
// PutChange records a proposed change directly, bypassing cast filtering.
// PutChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) PutChange(field, value string) *Changeset {
	c.changes[field] = value
	return c
}

// DeleteChange describes the deletechange operation and its observable behavior.
//
// DeleteChange removes a proposed change, if any.
// DeleteChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) DeleteChange(field string) *Changeset {
	delete(c.changes, field)
	return c
}

// MarkTransient describes the marktransient operation and its observable behavior.
//
// MarkTransient flags fields that must never be persisted. Transient changes are
// visible to validators but excluded from Apply and Changes.
// MarkTransient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) MarkTransient(fields ...string) *Changeset {
	for _, field := range fields {
		c.transient[field] = struct{}{}
	}
	return c
}

// Changes describes the changes operation and its observable behavior.
//
// Changes returns a copy of the persistable change map, transient fields excluded.
// Changes does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Changes() map[string]string {
	out := make(map[string]string, len(c.changes))
	for field, value := range c.changes {
		if _, skip := c.transient[field]; skip {
			continue
		}
		out[field] = value
	}
	return out
}

/*
====================================
VALIDATORS
====================================
*/

// AddError describes the adderror operation and its observable behavior.
//
// AddError attaches a field-tagged message. Multiple messages per field accumulate
// in order.
// AddError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) AddError(field, message string) *Changeset {
	c.errors[field] = append(c.errors[field], message)
	return c
}

// ValidateRequired describes the validaterequired operation and its observable behavior.
//
// ValidateRequired adds a blank error for every listed field whose current view is
// empty. An uncast field with no record value still fails.
// ValidateRequired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) ValidateRequired(fields ...string) *Changeset {
	for _, field := range fields {
		if c.GetField(field) == "" {
			c.AddError(field, MsgBlank)
		}
	}
	return c
}

// ValidateLength describes the validatelength operation and its observable behavior.
//
// ValidateLength checks the proposed change against inclusive byte-length bounds.
// Length is measured over raw string bytes exactly as provided (no Unicode
// normalization). Fields without a change are skipped.
// ValidateLength does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) ValidateLength(field string, min, max int) *Changeset {
	value, ok := c.changes[field]
	if !ok {
		return c
	}
	if min > 0 && len(value) < min {
		c.AddError(field, fmt.Sprintf("should be at least %d character(s)", min))
	}
	if max > 0 && len(value) > max {
		c.AddError(field, fmt.Sprintf("should be at most %d character(s)", max))
	}
	return c
}

// ValidateFormat describes the validateformat operation and its observable behavior.
//
// ValidateFormat matches the proposed change against the pattern, adding an invalid
// format error on mismatch. Fields without a change are skipped.
// ValidateFormat does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) ValidateFormat(field string, pattern *regexp.Regexp) *Changeset {
	value, ok := c.changes[field]
	if !ok {
		return c
	}
	if !pattern.MatchString(value) {
		c.AddError(field, MsgInvalidFormat)
	}
	return c
}

// ValidateConfirmation describes the validateconfirmation operation and its observable behavior.
//
// ValidateConfirmation requires the confirmation field to equal the source field's
// change byte-for-byte. It runs only when the source field has a change; the error is
// attached to the confirmation field.
// ValidateConfirmation does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) ValidateConfirmation(field, confirmField, message string) *Changeset {
	value, ok := c.changes[field]
	if !ok {
		return c
	}
	if confirm := c.changes[confirmField]; confirm != value {
		c.AddError(confirmField, message)
	}
	return c
}

/*
====================================
DEFERRED CONSTRAINTS
====================================
*/

// UniqueConstraint describes the uniqueconstraint operation and its observable behavior.
//
// UniqueConstraint declares that the field must be unique in the backing store. The
// check is deferred to commit time: a violation surfaces there as a late-arriving
// "has already been taken" error, never during validation.
// UniqueConstraint does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) UniqueConstraint(field string) *Changeset {
	for _, existing := range c.constraints {
		if existing == field {
			return c
		}
	}
	c.constraints = append(c.constraints, field)
	return c
}

// Constraints describes the constraints operation and its observable behavior.
//
// Constraints returns the fields declared unique, in declaration order.
// Constraints does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Constraints() []string {
	out := make([]string, len(c.constraints))
	copy(out, c.constraints)
	return out
}

/*
====================================
RESULT ACCESS
====================================
*/

// Errors describes the errors operation and its observable behavior.
//
// Errors returns a copy of the field error map.
// Errors does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Errors() map[string][]string {
	out := make(map[string][]string, len(c.errors))
	for field, messages := range c.errors {
		copied := make([]string, len(messages))
		copy(copied, messages)
		out[field] = copied
	}
	return out
}

// FieldErrors describes the fielderrors operation and its observable behavior.
//
// FieldErrors returns the messages attached to a single field, in order.
// FieldErrors does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) FieldErrors(field string) []string {
	messages := c.errors[field]
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}

// ErrorFields describes the errorfields operation and its observable behavior.
//
// ErrorFields returns the sorted names of fields carrying at least one error.
// ErrorFields does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) ErrorFields() []string {
	fields := make([]string, 0, len(c.errors))
	for field := range c.errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Apply describes the apply operation and its observable behavior.
//
// Apply derives a new record with persistable changes applied. The source record is
// untouched; transient fields never reach the result.
// Apply does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Changeset) Apply() Record {
	out := c.data
	for field, value := range c.changes {
		if _, skip := c.transient[field]; skip {
			continue
		}
		switch field {
		case FieldEmail:
			out.Email = value
		case FieldPasswordHash:
			out.PasswordHash = value
		}
	}
	return out
}
