package goCred

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goCred/changeset"
)

func TestCurrentPasswordChangesetCorrectPassword(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}
	cs, err := engine.CurrentPasswordChangeset(context.Background(), user, map[string]string{
		"current_password": "the-right-password",
	})
	if err != nil {
		t.Fatalf("CurrentPasswordChangeset failed: %v", err)
	}
	if !cs.Valid() {
		t.Fatalf("expected correct password to validate, got %v", cs.Errors())
	}
}

func TestCurrentPasswordChangesetWrongPassword(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}
	cs, err := engine.CurrentPasswordChangeset(context.Background(), user, map[string]string{
		"current_password": "not-the-right-password",
	})
	if err != nil {
		t.Fatalf("wrong password is a field error, not a call error: %v", err)
	}
	assertFieldError(t, cs.Errors(), changeset.FieldCurrentPassword, changeset.MsgInvalid)
}

func TestCurrentPasswordChangesetBlank(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}

	for _, input := range []map[string]string{
		{},
		{"current_password": ""},
	} {
		cs, err := engine.CurrentPasswordChangeset(context.Background(), user, input)
		if err != nil {
			t.Fatalf("CurrentPasswordChangeset failed: %v", err)
		}
		assertFieldError(t, cs.Errors(), changeset.FieldCurrentPassword, changeset.MsgBlank)
	}
}

func TestCurrentPasswordChangesetSkipsAccountsWithoutHash(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	user := UserRecord{UserID: "u1", Email: "u1@example.com"}
	cs, err := engine.CurrentPasswordChangeset(context.Background(), user, map[string]string{})
	if err != nil {
		t.Fatalf("CurrentPasswordChangeset failed: %v", err)
	}
	if !cs.Valid() {
		t.Fatalf("accounts without a stored hash skip the gate, got %v", cs.Errors())
	}
}

func TestCurrentPasswordChangesetTransientOnAccountsWithoutHash(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	// The skip path must still treat a supplied value as transient.
	user := UserRecord{UserID: "u1", Email: "u1@example.com"}
	cs, err := engine.CurrentPasswordChangeset(context.Background(), user, map[string]string{
		"current_password": "the-right-password",
	})
	if err != nil {
		t.Fatalf("CurrentPasswordChangeset failed: %v", err)
	}
	if changes := cs.Changes(); len(changes) != 0 {
		t.Fatalf("current_password is transient, got persistable changes %v", changes)
	}
	if applied := cs.Apply(); applied.PasswordHash != "" {
		t.Fatalf("skip path must not touch storable fields, got %+v", applied)
	}
}

func TestCurrentPasswordChangesetNeverPersistsPlaintext(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())

	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}
	cs, err := engine.CurrentPasswordChangeset(context.Background(), user, map[string]string{
		"current_password": "the-right-password",
	})
	if err != nil {
		t.Fatalf("CurrentPasswordChangeset failed: %v", err)
	}
	if changes := cs.Changes(); len(changes) != 0 {
		t.Fatalf("current_password is transient, got persistable changes %v", changes)
	}
}

func TestCurrentPasswordRateLimitedAfterRepeatedFailures(t *testing.T) {
	cfg := testConfig()
	cfg.CurrentPassword.MaxAttempts = 3
	engine, _, _ := newTestEngine(t, cfg)

	ctx := context.Background()
	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}
	input := map[string]string{"current_password": "not-the-right-password"}

	for i := 0; i < 3; i++ {
		if _, err := engine.CurrentPasswordChangeset(ctx, user, input); err != nil {
			t.Fatalf("attempt %d failed early: %v", i+1, err)
		}
	}

	_, err := engine.CurrentPasswordChangeset(ctx, user, input)
	if !errors.Is(err, ErrReauthRateLimited) {
		t.Fatalf("expected ErrReauthRateLimited after %d failures, got %v", 3, err)
	}

	// Even the correct password is refused while the cooldown holds.
	_, err = engine.CurrentPasswordChangeset(ctx, user, map[string]string{
		"current_password": "the-right-password",
	})
	if !errors.Is(err, ErrReauthRateLimited) {
		t.Fatalf("expected cooldown to block correct password too, got %v", err)
	}
}

func TestCurrentPasswordSuccessResetsLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.CurrentPassword.MaxAttempts = 3
	engine, _, mr := newTestEngine(t, cfg)

	ctx := context.Background()
	user := UserRecord{UserID: "u1", Email: "u1@example.com", PasswordHash: "hashed:the-right-password"}

	for i := 0; i < 2; i++ {
		if _, err := engine.CurrentPasswordChangeset(ctx, user, map[string]string{
			"current_password": "not-the-right-password",
		}); err != nil {
			t.Fatalf("attempt %d failed early: %v", i+1, err)
		}
	}

	cs, err := engine.CurrentPasswordChangeset(ctx, user, map[string]string{
		"current_password": "the-right-password",
	})
	if err != nil || !cs.Valid() {
		t.Fatalf("expected success below the limit: err=%v errs=%v", err, cs.Errors())
	}

	if mr.Exists("cpa:0:u1@example.com") {
		t.Fatal("expected failure counter to be cleared after success")
	}
}
