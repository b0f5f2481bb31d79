package internaldefs

import (
	goCred "github.com/MrEthical07/goCred"
)

// CounterDef defines a public type used by goCred APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goCred APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the credential engine.
var CounterDefs = []CounterDef{
	{ID: goCred.MetricRegisterSuccess, Name: "gocred_register_success_total", Help: "Successful account registrations."},
	{ID: goCred.MetricRegisterFailure, Name: "gocred_register_failure_total", Help: "Failed account registrations."},
	{ID: goCred.MetricRegisterDuplicate, Name: "gocred_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: goCred.MetricEmailChangeSuccess, Name: "gocred_email_change_success_total", Help: "Successful email changes."},
	{ID: goCred.MetricEmailChangeFailure, Name: "gocred_email_change_failure_total", Help: "Failed email changes."},
	{ID: goCred.MetricEmailChangeDuplicate, Name: "gocred_email_change_duplicate_total", Help: "Email changes rejected as duplicate."},
	{ID: goCred.MetricPasswordChangeSuccess, Name: "gocred_password_change_success_total", Help: "Successful password changes."},
	{ID: goCred.MetricPasswordChangeFailure, Name: "gocred_password_change_failure_total", Help: "Failed password changes."},
	{ID: goCred.MetricCurrentPasswordOK, Name: "gocred_current_password_ok_total", Help: "Successful current-password verifications."},
	{ID: goCred.MetricCurrentPasswordInvalid, Name: "gocred_current_password_invalid_total", Help: "Failed current-password verifications."},
	{ID: goCred.MetricCurrentPasswordRateLimited, Name: "gocred_current_password_rate_limited_total", Help: "Rate-limited current-password verifications."},
	{ID: goCred.MetricAuthenticateSuccess, Name: "gocred_authenticate_success_total", Help: "Successful authentications."},
	{ID: goCred.MetricAuthenticateFailure, Name: "gocred_authenticate_failure_total", Help: "Failed authentications."},
	{ID: goCred.MetricAuthenticateRateLimited, Name: "gocred_authenticate_rate_limited_total", Help: "Rate-limited authentication attempts."},
	{ID: goCred.MetricReauthTokenIssued, Name: "gocred_reauth_token_issued_total", Help: "Issued re-auth proof tokens."},
	{ID: goCred.MetricCommitSuccess, Name: "gocred_commit_success_total", Help: "Successful changeset commits."},
	{ID: goCred.MetricCommitConflict, Name: "gocred_commit_conflict_total", Help: "Commits rejected by a uniqueness conflict."},
	{ID: goCred.MetricCommitFailure, Name: "gocred_commit_failure_total", Help: "Commits failed on backend errors."},
}

// HistogramDefs is an exported constant or variable used by the credential engine.
var HistogramDefs = []HistogramDef{
	{ID: goCred.MetricHashLatency, Name: "gocred_hash_latency_seconds", Help: "Password hashing latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the credential engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the credential engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
