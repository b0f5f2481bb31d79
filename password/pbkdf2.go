package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minIterations        = 10_000
	minPBKDF2SaltLength  uint32 = 16
	minPBKDF2KeyLength   uint32 = 16
	pbkdf2AlgorithmID           = "pbkdf2-sha256"
	defaultIterations           = 600_000
	defaultSaltLength    uint32 = 16
	defaultKeyLength     uint32 = 32
)

// PBKDF2Config defines a public type used by goCred APIs.
//
// PBKDF2Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PBKDF2Config struct {
	Iterations int
	SaltLength uint32
	KeyLength  uint32
}

// PBKDF2 defines a public type used by goCred APIs.
//
// PBKDF2 instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PBKDF2 struct {
	config PBKDF2Config
}

type parsedPBKDF2 struct {
	iterations int
	salt       []byte
	hash       []byte
}

// DefaultPBKDF2 describes the defaultpbkdf2 operation and its observable behavior.
//
// DefaultPBKDF2 returns the built-in hasher with default parameters. It backs the
// default [Methods] pair when no custom pair is configured.
// DefaultPBKDF2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultPBKDF2() *PBKDF2 {
	return &PBKDF2{config: PBKDF2Config{
		Iterations: defaultIterations,
		SaltLength: defaultSaltLength,
		KeyLength:  defaultKeyLength,
	}}
}

// NewPBKDF2 describes the newpbkdf2 operation and its observable behavior.
//
// NewPBKDF2 may return an error when input validation, dependency calls, or security checks fail.
// NewPBKDF2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewPBKDF2(cfg PBKDF2Config) (*PBKDF2, error) {
	if cfg.Iterations < minIterations {
		return nil, errors.New("password iterations must be >= 10000")
	}
	if cfg.SaltLength < minPBKDF2SaltLength {
		return nil, errors.New("password salt length must be >= 16")
	}
	if cfg.KeyLength < minPBKDF2KeyLength {
		return nil, errors.New("password key length must be >= 16")
	}

	return &PBKDF2{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *PBKDF2) Hash(password string) (string, error) {
	// Password processing uses raw string bytes exactly as provided (no Unicode
	// normalization). Length policy is the changeset's job, not the hasher's.
	salt := make([]byte, p.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	hash := pbkdf2.Key([]byte(password), salt, p.config.Iterations, int(p.config.KeyLength), sha256.New)

	saltEncoded := base64.StdEncoding.EncodeToString(salt)
	hashEncoded := base64.StdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$%s$i=%d$%s$%s",
		pbkdf2AlgorithmID,
		p.config.Iterations,
		saltEncoded,
		hashEncoded,
	), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *PBKDF2) Verify(password string, encodedHash string) (bool, error) {
	parsed, err := parsePBKDF2(encodedHash)
	if err != nil {
		return false, err
	}

	computed := pbkdf2.Key([]byte(password), parsed.salt, parsed.iterations, len(parsed.hash), sha256.New)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

// NeedsRehash describes the needsrehash operation and its observable behavior.
//
// NeedsRehash may return an error when input validation, dependency calls, or security checks fail.
// NeedsRehash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *PBKDF2) NeedsRehash(encodedHash string) (bool, error) {
	parsed, err := parsePBKDF2(encodedHash)
	if err != nil {
		return false, err
	}

	if p.config.Iterations > parsed.iterations {
		return true, nil
	}
	if int(p.config.KeyLength) != len(parsed.hash) {
		return true, nil
	}

	return false, nil
}

func parsePBKDF2(encodedHash string) (*parsedPBKDF2, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}

	if parts[1] != pbkdf2AlgorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	iterPart := parts[2]
	if !strings.HasPrefix(iterPart, "i=") {
		return nil, errors.New("missing iteration count")
	}
	iterations, err := strconv.Atoi(strings.TrimPrefix(iterPart, "i="))
	if err != nil || iterations < minIterations {
		return nil, errors.New("invalid iteration count")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(salt) < int(minPBKDF2SaltLength) {
		return nil, errors.New("invalid salt length")
	}

	hash, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(hash) == 0 {
		return nil, errors.New("invalid hash length")
	}

	return &parsedPBKDF2{
		iterations: iterations,
		salt:       salt,
		hash:       hash,
	}, nil
}
