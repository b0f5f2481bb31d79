package goCred

import (
	"errors"
	"time"
)

// Config defines a public type used by goCred APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Identity        IdentityConfig
	Password        PasswordConfig
	CurrentPassword CurrentPasswordConfig
	Reauth          ReauthConfig
	Commit          CommitConfig
	Audit           AuditConfig
	Metrics         MetricsConfig
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig defines a public type used by goCred APIs.
//
// IdentityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityConfig struct {
	MaxLength int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// HashMethod defines a public type used by goCred APIs.
//
// HashMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HashMethod string

const (
	// MethodPBKDF2 is an exported constant or variable used by the credential engine.
	MethodPBKDF2 HashMethod = "pbkdf2-sha256"
	// MethodArgon2 is an exported constant or variable used by the credential engine.
	MethodArgon2 HashMethod = "argon2id"
	// MethodBcrypt is an exported constant or variable used by the credential engine.
	MethodBcrypt HashMethod = "bcrypt"
)

// PasswordConfig defines a public type used by goCred APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	MinLength int
	MaxLength int

	Method HashMethod

	PBKDF2Iterations int
	PBKDF2SaltLength uint32
	PBKDF2KeyLength  uint32

	Argon2Memory      uint32 // in KB
	Argon2Time        uint32
	Argon2Parallelism uint8
	Argon2SaltLength  uint32
	Argon2KeyLength   uint32

	BcryptCost int
}

/*
====================================
CURRENT PASSWORD CONFIG
====================================
*/

// CurrentPasswordConfig defines a public type used by goCred APIs.
//
// CurrentPasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CurrentPasswordConfig struct {
	EnableIdentifierThrottle bool
	EnableIPThrottle         bool
	MaxAttempts              int
	Cooldown                 time.Duration
}

/*
====================================
REAUTH CONFIG
====================================
*/

// ReauthConfig defines a public type used by goCred APIs.
//
// ReauthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ReauthConfig struct {
	Enabled       bool
	TokenTTL      time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
COMMIT CONFIG
====================================
*/

// CommitConfig defines a public type used by goCred APIs.
//
// CommitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CommitConfig struct {
	ReservationTTL time.Duration
}

// AuditConfig defines a public type used by goCred APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goCred APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Identity: IdentityConfig{
			MaxLength: 160,
		},
		Password: PasswordConfig{
			MinLength:         10,
			MaxLength:         4096,
			Method:            MethodPBKDF2,
			PBKDF2Iterations:  600_000,
			PBKDF2SaltLength:  16,
			PBKDF2KeyLength:   32,
			Argon2Memory:      65536,
			Argon2Time:        3,
			Argon2Parallelism: 2,
			Argon2SaltLength:  16,
			Argon2KeyLength:   32,
			BcryptCost:        12,
		},
		CurrentPassword: CurrentPasswordConfig{
			EnableIdentifierThrottle: true,
			EnableIPThrottle:         true,
			MaxAttempts:              5,
			Cooldown:                 15 * time.Minute,
		},
		Reauth: ReauthConfig{
			Enabled:       false,
			TokenTTL:      5 * time.Minute,
			SigningMethod: "hs256",
		},
		Commit: CommitConfig{
			ReservationTTL: 2 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Reauth.PrivateKey = cloneBytes(cfg.Reauth.PrivateKey)
	out.Reauth.PublicKey = cloneBytes(cfg.Reauth.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Identity
	if c.Identity.MaxLength <= 0 {
		return errors.New("Identity MaxLength must be > 0")
	}

	// Password
	if c.Password.MinLength <= 0 {
		return errors.New("Password MinLength must be > 0")
	}
	if c.Password.MaxLength < c.Password.MinLength {
		return errors.New("Password MaxLength must be >= MinLength")
	}

	switch c.Password.Method {
	case MethodPBKDF2:
		if c.Password.PBKDF2Iterations < 10_000 {
			return errors.New("Password PBKDF2Iterations must be >= 10000")
		}
		if c.Password.PBKDF2SaltLength < 16 {
			return errors.New("Password PBKDF2SaltLength must be >= 16")
		}
		if c.Password.PBKDF2KeyLength < 16 {
			return errors.New("Password PBKDF2KeyLength must be >= 16")
		}
	case MethodArgon2:
		if c.Password.Argon2Memory < 8*1024 {
			return errors.New("Password Argon2Memory must be >= 8192 KB")
		}
		if c.Password.Argon2Time < 1 {
			return errors.New("Password Argon2Time must be >= 1")
		}
		if c.Password.Argon2Parallelism < 1 {
			return errors.New("Password Argon2Parallelism must be >= 1")
		}
		if c.Password.Argon2SaltLength < 16 {
			return errors.New("Password Argon2SaltLength must be >= 16")
		}
		if c.Password.Argon2KeyLength < 16 {
			return errors.New("Password Argon2KeyLength must be >= 16")
		}
	case MethodBcrypt:
		if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
			return errors.New("Password BcryptCost must be between 4 and 31")
		}
	default:
		return errors.New("unsupported Password Method")
	}

	// Current password
	if c.CurrentPassword.EnableIdentifierThrottle || c.CurrentPassword.EnableIPThrottle {
		if c.CurrentPassword.MaxAttempts <= 0 {
			return errors.New("CurrentPassword MaxAttempts must be > 0 when throttling is enabled")
		}
		if c.CurrentPassword.Cooldown <= 0 {
			return errors.New("CurrentPassword Cooldown must be > 0 when throttling is enabled")
		}
	}

	// Reauth
	if c.Reauth.Enabled {
		if c.Reauth.TokenTTL <= 0 {
			return errors.New("Reauth TokenTTL must be > 0")
		}
		if c.Reauth.TokenTTL > time.Hour {
			return errors.New("Reauth TokenTTL must be <= 1h")
		}

		switch c.Reauth.SigningMethod {
		case "hs256":
			if len(c.Reauth.PrivateKey) < 32 {
				return errors.New("Reauth hs256 requires PrivateKey length >= 256 bits")
			}
		case "ed25519":
			if len(c.Reauth.PrivateKey) == 0 {
				return errors.New("Reauth ed25519 requires PrivateKey")
			}
			if len(c.Reauth.PublicKey) == 0 {
				return errors.New("Reauth ed25519 requires PublicKey")
			}
		default:
			return errors.New("unsupported Reauth signing method")
		}
	}

	// Commit
	if c.Commit.ReservationTTL <= 0 {
		return errors.New("Commit ReservationTTL must be > 0")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
