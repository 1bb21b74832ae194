package erp

import (
	"errors"
	"time"
)

// Config holds configuration for one authenticated connection to the Alta
// ERP remote interface. The provider issues separate credential pairs for
// document-style and stock-style calls, so the platform runs two clients,
// each with its own Config.
type Config struct {
	// BaseURL is the base URL of the provider's remote interface
	BaseURL string
	// Username is the provider login name
	Username string
	// Password is the provider login password
	Password string
	// TokenTTL is how long an issued token is assumed valid
	TokenTTL time.Duration
	// TokenSafetyMargin is subtracted from the TTL when judging freshness,
	// so a token is refreshed slightly before it actually expires
	TokenSafetyMargin time.Duration
	// PageSize is the page size used by the paginated fetch primitives
	PageSize int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Defaults for Config fields left unset.
const (
	DefaultTokenTTL          = 55 * time.Minute
	DefaultTokenSafetyMargin = time.Minute
	DefaultPageSize          = 500
	DefaultTimeoutSeconds    = 30
)

// Errors for ERP configuration
var (
	ErrConfigMissingBaseURL  = errors.New("erp: base URL is required")
	ErrConfigMissingUsername = errors.New("erp: username is required")
	ErrConfigMissingPassword = errors.New("erp: password is required")
)

// NewConfig creates a new configuration with defaults.
func NewConfig(baseURL, username, password string) *Config {
	return &Config{
		BaseURL:           baseURL,
		Username:          username,
		Password:          password,
		TokenTTL:          DefaultTokenTTL,
		TokenSafetyMargin: DefaultTokenSafetyMargin,
		PageSize:          DefaultPageSize,
		TimeoutSeconds:    DefaultTimeoutSeconds,
	}
}

// Validate checks required fields and applies defaults for the rest.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.Username == "" {
		return ErrConfigMissingUsername
	}
	if c.Password == "" {
		return ErrConfigMissingPassword
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = DefaultTokenTTL
	}
	if c.TokenSafetyMargin <= 0 {
		c.TokenSafetyMargin = DefaultTokenSafetyMargin
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}
