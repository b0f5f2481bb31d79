package goCred

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	IdentityMaxLength int `env:"GOCRED_IDENTITY_MAX_LENGTH"`

	PasswordMinLength int    `env:"GOCRED_PASSWORD_MIN_LENGTH"`
	PasswordMaxLength int    `env:"GOCRED_PASSWORD_MAX_LENGTH"`
	PasswordMethod    string `env:"GOCRED_PASSWORD_METHOD"`
	PBKDF2Iterations  int    `env:"GOCRED_PBKDF2_ITERATIONS"`
	BcryptCost        int    `env:"GOCRED_BCRYPT_COST"`

	ThrottleMaxAttempts int           `env:"GOCRED_THROTTLE_MAX_ATTEMPTS"`
	ThrottleCooldown    time.Duration `env:"GOCRED_THROTTLE_COOLDOWN"`

	ReauthEnabled bool          `env:"GOCRED_REAUTH_ENABLED"`
	ReauthTTL     time.Duration `env:"GOCRED_REAUTH_TTL"`
	ReauthMethod  string        `env:"GOCRED_REAUTH_METHOD"`
	ReauthKey     string        `env:"GOCRED_REAUTH_KEY,unset"`
	ReauthIssuer  string        `env:"GOCRED_REAUTH_ISSUER"`

	ReservationTTL time.Duration `env:"GOCRED_RESERVATION_TTL"`

	AuditEnabled   bool `env:"GOCRED_AUDIT_ENABLED"`
	MetricsEnabled bool `env:"GOCRED_METRICS_ENABLED"`
}

// ConfigFromEnv loads overrides from GOCRED_* environment variables on top of
// the library defaults. Unset variables leave the default in place; the result
// still goes through Config.Validate at build time.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return cfg, err
	}

	if overrides.IdentityMaxLength > 0 {
		cfg.Identity.MaxLength = overrides.IdentityMaxLength
	}

	if overrides.PasswordMinLength > 0 {
		cfg.Password.MinLength = overrides.PasswordMinLength
	}
	if overrides.PasswordMaxLength > 0 {
		cfg.Password.MaxLength = overrides.PasswordMaxLength
	}
	if overrides.PasswordMethod != "" {
		cfg.Password.Method = HashMethod(overrides.PasswordMethod)
	}
	if overrides.PBKDF2Iterations > 0 {
		cfg.Password.PBKDF2Iterations = overrides.PBKDF2Iterations
	}
	if overrides.BcryptCost > 0 {
		cfg.Password.BcryptCost = overrides.BcryptCost
	}

	if overrides.ThrottleMaxAttempts > 0 {
		cfg.CurrentPassword.MaxAttempts = overrides.ThrottleMaxAttempts
	}
	if overrides.ThrottleCooldown > 0 {
		cfg.CurrentPassword.Cooldown = overrides.ThrottleCooldown
	}

	if overrides.ReauthEnabled {
		cfg.Reauth.Enabled = true
	}
	if overrides.ReauthTTL > 0 {
		cfg.Reauth.TokenTTL = overrides.ReauthTTL
	}
	if overrides.ReauthMethod != "" {
		cfg.Reauth.SigningMethod = overrides.ReauthMethod
	}
	if overrides.ReauthKey != "" {
		cfg.Reauth.PrivateKey = []byte(overrides.ReauthKey)
	}
	if overrides.ReauthIssuer != "" {
		cfg.Reauth.Issuer = overrides.ReauthIssuer
	}

	if overrides.ReservationTTL > 0 {
		cfg.Commit.ReservationTTL = overrides.ReservationTTL
	}

	if overrides.AuditEnabled {
		cfg.Audit.Enabled = true
	}
	if overrides.MetricsEnabled {
		cfg.Metrics.Enabled = true
	}

	return cfg, nil
}
