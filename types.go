package goCred

import (
	"context"

	"github.com/MrEthical07/goCred/changeset"
)

// UserRecord is the account record exchanged with a [UserProvider]. PasswordHash
// empty means no password was ever set (external identity provider accounts).
type UserRecord struct {
	UserID         string
	TenantID       string
	Email          string
	PasswordHash   string
	EmailConfirmed bool
}

func (u UserRecord) changesetRecord() changeset.Record {
	return changeset.Record{
		UserID:       u.UserID,
		TenantID:     u.TenantID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

func userFromRecord(base UserRecord, rec changeset.Record) UserRecord {
	out := base
	out.UserID = rec.UserID
	out.TenantID = rec.TenantID
	out.Email = rec.Email
	out.PasswordHash = rec.PasswordHash
	return out
}

// CreateUserInput is the input for [UserProvider.CreateUser]. Email arrives
// normalized; PasswordHash is already encoded — providers never see plaintext.
type CreateUserInput struct {
	TenantID     string
	Email        string
	PasswordHash string
}

// UserProvider is the interface callers implement to integrate goCred with their
// user database. Duplicate email on create or update must be signalled with
// [ErrProviderDuplicateEmail] (wrapped or direct) so the commit layer can surface
// it as a field error on the changeset.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, tenantID, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}
