package goCred

import (
	"errors"

	"github.com/MrEthical07/goCred/jwt"
	"github.com/MrEthical07/goCred/password"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goCred APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	userProvider UserProvider
	auditSink    AuditSink
	hashMethods  password.Methods

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider may return an error when input validation, dependency calls, or security checks fail.
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithHashMethods overrides the configured hash strategy with a caller-supplied
// hash/verify pair. Both functions must be set; otherwise Build falls back to
// the Config.Password.Method strategy.
func (b *Builder) WithHashMethods(m password.Methods) *Builder {
	b.hashMethods = m
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	methods, err := resolveHashMethods(cfg.Password, b.hashMethods)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		hashMethods: methods,
	}

	engine.userProvider = b.userProvider
	engine.identStore = newIdentReservationStore(b.redis, cfg.Commit)
	engine.attemptLimiter = newCredentialAttemptLimiter(b.redis, cfg.CurrentPassword)
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	if cfg.Reauth.Enabled {
		jm, err := jwt.NewManager(jwt.Config{
			TokenTTL:      cfg.Reauth.TokenTTL,
			SigningMethod: jwt.SigningMethod(cfg.Reauth.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Reauth.PrivateKey),
			PublicKey:     cloneBytes(cfg.Reauth.PublicKey),
			Issuer:        cfg.Reauth.Issuer,
		})
		if err != nil {
			return nil, err
		}
		engine.reauthTokens = jm
	}

	// Hash of a throwaway value, verified when a lookup misses so that
	// Authenticate takes the same time for unknown and known identifiers.
	dummy, err := methods.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	engine.dummyHash = dummy

	b.built = true

	return engine, nil
}

func resolveHashMethods(cfg PasswordConfig, override password.Methods) (password.Methods, error) {
	if override.Hash != nil || override.Verify != nil {
		if !override.Usable() {
			return password.Methods{}, errors.New("hash methods require both Hash and Verify")
		}
		return override, nil
	}

	switch cfg.Method {
	case MethodPBKDF2:
		h, err := password.NewPBKDF2(password.PBKDF2Config{
			Iterations: cfg.PBKDF2Iterations,
			SaltLength: cfg.PBKDF2SaltLength,
			KeyLength:  cfg.PBKDF2KeyLength,
		})
		if err != nil {
			return password.Methods{}, err
		}
		return password.FromHasher(h), nil
	case MethodArgon2:
		h, err := password.NewArgon2(password.Argon2Config{
			Memory:      cfg.Argon2Memory,
			Time:        cfg.Argon2Time,
			Parallelism: cfg.Argon2Parallelism,
			SaltLength:  cfg.Argon2SaltLength,
			KeyLength:   cfg.Argon2KeyLength,
		})
		if err != nil {
			return password.Methods{}, err
		}
		return password.FromHasher(h), nil
	case MethodBcrypt:
		h, err := password.NewBcrypt(cfg.BcryptCost)
		if err != nil {
			return password.Methods{}, err
		}
		return password.FromHasher(h), nil
	default:
		return password.Methods{}, errors.New("unsupported Password Method")
	}
}
