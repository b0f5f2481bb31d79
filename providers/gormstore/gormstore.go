package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goCred "github.com/MrEthical07/goCred"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the persisted account row. The tenant+email pair carries the unique
// index the commit layer relies on for its late duplicate check.
type User struct {
	ID             string `gorm:"primaryKey;size:64"`
	TenantID       string `gorm:"size:64;uniqueIndex:idx_tenant_email;index"`
	Email          string `gorm:"size:160;uniqueIndex:idx_tenant_email"`
	PasswordHash   string `gorm:"size:512"`
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store implements [goCred.UserProvider] on a GORM database handle.
type Store struct {
	db *gorm.DB
}

// New migrates the user table and returns a store bound to db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("gorm db required")
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return &Store{db: db}, nil
}

// GetUserByEmail describes the getuserbyemail operation and its observable behavior.
//
// GetUserByEmail may return an error when input validation, dependency calls, or security checks fail.
// GetUserByEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByEmail(ctx context.Context, tenantID, email string) (goCred.UserRecord, error) {
	var row User
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goCred.UserRecord{}, goCred.ErrUserNotFound
		}
		return goCred.UserRecord{}, err
	}
	return toRecord(row), nil
}

// GetUserByID describes the getuserbyid operation and its observable behavior.
//
// GetUserByID may return an error when input validation, dependency calls, or security checks fail.
// GetUserByID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetUserByID(ctx context.Context, userID string) (goCred.UserRecord, error) {
	var row User
	err := s.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goCred.UserRecord{}, goCred.ErrUserNotFound
		}
		return goCred.UserRecord{}, err
	}
	return toRecord(row), nil
}

// CreateUser describes the createuser operation and its observable behavior.
//
// CreateUser may return an error when input validation, dependency calls, or security checks fail.
// CreateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) CreateUser(ctx context.Context, input goCred.CreateUserInput) (goCred.UserRecord, error) {
	row := User{
		ID:           uuid.NewString(),
		TenantID:     input.TenantID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return goCred.UserRecord{}, translateDuplicate(err)
	}

	return toRecord(row), nil
}

// UpdateEmail describes the updateemail operation and its observable behavior.
//
// UpdateEmail may return an error when input validation, dependency calls, or security checks fail.
// UpdateEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) UpdateEmail(ctx context.Context, userID, email string) error {
	result := s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email":           email,
			"email_confirmed": false,
		})
	if result.Error != nil {
		return translateDuplicate(result.Error)
	}
	if result.RowsAffected == 0 {
		return goCred.ErrUserNotFound
	}
	return nil
}

// UpdatePasswordHash describes the updatepasswordhash operation and its observable behavior.
//
// UpdatePasswordHash may return an error when input validation, dependency calls, or security checks fail.
// UpdatePasswordHash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	result := s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("password_hash", newHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return goCred.ErrUserNotFound
	}
	return nil
}

func toRecord(row User) goCred.UserRecord {
	return goCred.UserRecord{
		UserID:         row.ID,
		TenantID:       row.TenantID,
		Email:          row.Email,
		PasswordHash:   row.PasswordHash,
		EmailConfirmed: row.EmailConfirmed,
	}
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", goCred.ErrProviderDuplicateEmail, err)
	}
	return err
}
