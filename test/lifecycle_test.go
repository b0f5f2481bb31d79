package test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	goCred "github.com/MrEthical07/goCred"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// memoryProvider is a minimal in-memory UserProvider for end-to-end flows.
type memoryProvider struct {
	mu     sync.Mutex
	users  map[string]goCred.UserRecord
	nextID int
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{users: make(map[string]goCred.UserRecord)}
}

func (m *memoryProvider) GetUserByEmail(_ context.Context, tenantID, email string) (goCred.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.TenantID == tenantID && user.Email == email {
			return user, nil
		}
	}
	return goCred.UserRecord{}, goCred.ErrUserNotFound
}

func (m *memoryProvider) GetUserByID(_ context.Context, userID string) (goCred.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return goCred.UserRecord{}, goCred.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryProvider) CreateUser(_ context.Context, input goCred.CreateUserInput) (goCred.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.TenantID == input.TenantID && user.Email == input.Email {
			return goCred.UserRecord{}, goCred.ErrProviderDuplicateEmail
		}
	}
	m.nextID++
	user := goCred.UserRecord{
		UserID:       fmt.Sprintf("mem-%03d", m.nextID),
		TenantID:     input.TenantID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}
	m.users[user.UserID] = user
	return user, nil
}

func (m *memoryProvider) UpdateEmail(_ context.Context, userID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return goCred.ErrUserNotFound
	}
	user.Email = email
	m.users[userID] = user
	return nil
}

func (m *memoryProvider) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return goCred.ErrUserNotFound
	}
	user.PasswordHash = newHash
	m.users[userID] = user
	return nil
}

func newLifecycleEngine(t *testing.T) *goCred.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg, err := goCred.ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	// Keep key derivation cheap in tests while staying on the real hasher.
	cfg.Password.PBKDF2Iterations = 10_000

	engine, err := goCred.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(newMemoryProvider()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

// The full register/authenticate/change-password arc on the real PBKDF2 hasher.
func TestCredentialLifecycle(t *testing.T) {
	engine := newLifecycleEngine(t)
	ctx := context.Background()

	created, cs, err := engine.RegisterUser(ctx, map[string]string{
		"email":            "Lifecycle@Example.com",
		"password":         "correct horse battery staple",
		"confirm_password": "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v (errors: %v)", err, cs.Errors())
	}
	if created.Email != "lifecycle@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if !strings.HasPrefix(created.PasswordHash, "$pbkdf2-sha256$") {
		t.Fatalf("expected PBKDF2 PHC hash, got %q", created.PasswordHash)
	}

	user, err := engine.Authenticate(ctx, "lifecycle@example.com", "correct horse battery staple")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.UserID != created.UserID {
		t.Fatalf("expected %q, got %q", created.UserID, user.UserID)
	}

	if _, err := engine.Authenticate(ctx, "lifecycle@example.com", "wrong horse battery staple"); !errors.Is(err, goCred.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := engine.UpdatePassword(ctx, created.UserID, map[string]string{
		"password":         "an entirely new passphrase",
		"confirm_password": "an entirely new passphrase",
		"current_password": "correct horse battery staple",
	}); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := engine.Authenticate(ctx, "lifecycle@example.com", "correct horse battery staple"); !errors.Is(err, goCred.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := engine.Authenticate(ctx, "lifecycle@example.com", "an entirely new passphrase"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
}

func TestDuplicateRegistrationLifecycle(t *testing.T) {
	engine := newLifecycleEngine(t)
	ctx := context.Background()

	input := map[string]string{
		"email":            "dup@example.com",
		"password":         "correct horse battery staple",
		"confirm_password": "correct horse battery staple",
	}
	if _, _, err := engine.RegisterUser(ctx, input); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, cs, err := engine.RegisterUser(ctx, input)
	if !errors.Is(err, goCred.ErrChangesetInvalid) {
		t.Fatalf("expected ErrChangesetInvalid, got %v", err)
	}
	found := false
	for _, msg := range cs.FieldErrors("email") {
		if msg == "has already been taken" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected taken error on email, got %v", cs.Errors())
	}
}
