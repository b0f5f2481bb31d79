package password

import (
	"strings"
	"testing"
)

func fastPBKDF2Config() PBKDF2Config {
	return PBKDF2Config{
		Iterations: 10_000,
		SaltLength: 16,
		KeyLength:  32,
	}
}

func TestPBKDF2HashAndVerify(t *testing.T) {
	hasher, err := NewPBKDF2(fastPBKDF2Config())
	if err != nil {
		t.Fatalf("NewPBKDF2 error: %v", err)
	}

	hash, err := hasher.Hash("P@ssw0rd-Ascii")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(hash, "$pbkdf2-sha256$i=10000$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("P@ssw0rd-Ascii", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestPBKDF2VerifyWrongPassword(t *testing.T) {
	hasher, err := NewPBKDF2(fastPBKDF2Config())
	if err != nil {
		t.Fatalf("NewPBKDF2 error: %v", err)
	}

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestPBKDF2HashesAreSalted(t *testing.T) {
	hasher, err := NewPBKDF2(fastPBKDF2Config())
	if err != nil {
		t.Fatalf("NewPBKDF2 error: %v", err)
	}

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestPBKDF2DefaultParameters(t *testing.T) {
	hasher := DefaultPBKDF2()

	hash, err := hasher.Hash("default-param-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$pbkdf2-sha256$i=600000$") {
		t.Fatalf("unexpected default PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("default-param-password", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected default hasher round trip to succeed")
	}
}

func TestPBKDF2NeedsRehash(t *testing.T) {
	oldHasher, err := NewPBKDF2(PBKDF2Config{Iterations: 10_000, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("NewPBKDF2(old) error: %v", err)
	}

	hash, err := oldHasher.Hash("test-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	newHasher, err := NewPBKDF2(PBKDF2Config{Iterations: 20_000, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("NewPBKDF2(new) error: %v", err)
	}

	needs, err := newHasher.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if !needs {
		t.Fatal("expected NeedsRehash to return true for weaker parameters")
	}

	needs, err = oldHasher.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if needs {
		t.Fatal("expected NeedsRehash to return false for current parameters")
	}
}

func TestPBKDF2VerifyMalformedHash(t *testing.T) {
	hasher, err := NewPBKDF2(fastPBKDF2Config())
	if err != nil {
		t.Fatalf("NewPBKDF2 error: %v", err)
	}

	malformed := []string{
		"not-a-phc-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=abc$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=10000$!!!$aGFzaA",
	}

	for _, hash := range malformed {
		if _, err := hasher.Verify("password", hash); err == nil {
			t.Fatalf("expected malformed hash %q to fail verification", hash)
		}
	}
}

func TestNewPBKDF2RejectsWeakConfig(t *testing.T) {
	weak := []PBKDF2Config{
		{Iterations: 9_999, SaltLength: 16, KeyLength: 32},
		{Iterations: 10_000, SaltLength: 8, KeyLength: 32},
		{Iterations: 10_000, SaltLength: 16, KeyLength: 8},
	}

	for _, cfg := range weak {
		if _, err := NewPBKDF2(cfg); err == nil {
			t.Fatalf("expected config %+v to be rejected", cfg)
		}
	}
}

func TestPBKDF2HandlesLongPasswords(t *testing.T) {
	// Unlike bcrypt there is no input truncation; a 4096 byte password must round trip.
	hasher, err := NewPBKDF2(fastPBKDF2Config())
	if err != nil {
		t.Fatalf("NewPBKDF2 error: %v", err)
	}

	long := strings.Repeat("a", 4096)
	hash, err := hasher.Hash(long)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify(long, hash)
	if err != nil || !ok {
		t.Fatalf("Verify failed for long password: ok=%v err=%v", ok, err)
	}

	ok, err = hasher.Verify(long[:4095], hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected truncated password to fail verification")
	}
}
