package naver

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Config holds configuration for the Naver Smart Store commerce API
type Config struct {
	// ClientID is the application id from the Naver commerce API center
	ClientID string
	// ClientSecret is the application secret, used to sign token requests
	ClientSecret string
	// BaseURL is the API gateway base URL
	BaseURL string
	// PageSize is the page size used for catalog listing
	PageSize int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NaverProductionAPIURL is the production API endpoint
const NaverProductionAPIURL = "https://api.commerce.naver.com"

// Errors for Naver configuration
var (
	ErrConfigMissingClientID     = errors.New("naver: client id is required")
	ErrConfigMissingClientSecret = errors.New("naver: client secret is required")
	ErrConfigSecretNotSalt       = errors.New("naver: client secret is not in bcrypt salt form")
)

// NewConfig creates a new Naver configuration with defaults
func NewConfig(clientID, clientSecret string) *Config {
	return &Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		BaseURL:        NaverProductionAPIURL,
		PageSize:       100,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Naver configuration
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	if c.BaseURL == "" {
		c.BaseURL = NaverProductionAPIURL
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign generates the electronic signature for a token request: a bcrypt hash
// of "{clientID}_{timestamp}" using the client secret as the salt, base64
// encoded. The secret is issued in bcrypt salt form, which makes the
// signature deterministic for a given timestamp so the gateway can recompute
// and verify it. Timestamp is in milliseconds.
func (c *Config) Sign(timestamp int64) (string, error) {
	password := fmt.Sprintf("%s_%d", c.ClientID, timestamp)
	hashed, err := hashWithSalt([]byte(password), c.ClientSecret)
	if err != nil {
		return "", fmt.Errorf("naver: failed to sign token request: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(hashed)), nil
}
