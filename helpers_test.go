package goCred

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/MrEthical07/goCred/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

/*
====================================
MOCK USER PROVIDER
====================================
*/

type mockUserProvider struct {
	mu sync.Mutex

	users  map[string]UserRecord
	nextID int

	getByEmailCalls  int
	getByIDCalls     int
	createCalls      int
	updateEmailCalls int
	updateHashCalls  int

	getByEmailErr  error
	getByIDErr     error
	createErr      error
	updateEmailErr error
	updateHashErr  error
}

func newMockUserProvider() *mockUserProvider {
	return &mockUserProvider{
		users: make(map[string]UserRecord),
	}
}

func (m *mockUserProvider) addUser(user UserRecord) UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.UserID == "" {
		m.nextID++
		user.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	m.users[user.UserID] = user
	return user
}

func (m *mockUserProvider) user(userID string) (UserRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	return user, ok
}

func (m *mockUserProvider) GetUserByEmail(_ context.Context, tenantID, email string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getByEmailCalls++
	if m.getByEmailErr != nil {
		return UserRecord{}, m.getByEmailErr
	}

	for _, user := range m.users {
		if normalizeTenantID(user.TenantID) == normalizeTenantID(tenantID) && user.Email == email {
			return user, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (m *mockUserProvider) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getByIDCalls++
	if m.getByIDErr != nil {
		return UserRecord{}, m.getByIDErr
	}

	user, ok := m.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserProvider) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return UserRecord{}, m.createErr
	}

	for _, user := range m.users {
		if normalizeTenantID(user.TenantID) == normalizeTenantID(input.TenantID) && user.Email == input.Email {
			return UserRecord{}, ErrProviderDuplicateEmail
		}
	}

	m.nextID++
	user := UserRecord{
		UserID:       fmt.Sprintf("user-%d", m.nextID),
		TenantID:     input.TenantID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
	}
	m.users[user.UserID] = user
	return user, nil
}

func (m *mockUserProvider) UpdateEmail(_ context.Context, userID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateEmailCalls++
	if m.updateEmailErr != nil {
		return m.updateEmailErr
	}

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Email = email
	user.EmailConfirmed = false
	m.users[userID] = user
	return nil
}

func (m *mockUserProvider) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateHashCalls++
	if m.updateHashErr != nil {
		return m.updateHashErr
	}

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = newHash
	m.users[userID] = user
	return nil
}

/*
====================================
TEST FIXTURES
====================================
*/

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, rdb
}

// testHashMethods is a deterministic stand-in for the real hashers so engine
// tests do not pay key-derivation cost.
func testHashMethods() password.Methods {
	return password.Methods{
		Hash: func(pwd string) (string, error) {
			return "hashed:" + pwd, nil
		},
		Verify: func(pwd, encoded string) (bool, error) {
			return encoded == "hashed:"+pwd, nil
		},
	}
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *mockUserProvider, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	up := newMockUserProvider()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(up).
		WithHashMethods(testHashMethods()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, up, mr
}

func assertFieldError(t *testing.T, errs map[string][]string, field, want string) {
	t.Helper()

	for _, msg := range errs[field] {
		if msg == want {
			return
		}
	}
	t.Fatalf("expected %q on field %q, got %v", want, field, errs)
}

func assertNoFieldError(t *testing.T, errs map[string][]string, field string) {
	t.Helper()

	if msgs := errs[field]; len(msgs) != 0 {
		t.Fatalf("expected no errors on field %q, got %v", field, msgs)
	}
}
