package cafe24

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Config holds configuration for the Cafe24 admin API
type Config struct {
	// MallID is the shop identifier, part of the API hostname
	MallID string
	// ClientID and ClientSecret identify the registered app
	ClientID     string
	ClientSecret string
	// RefreshToken is the long-lived token used to mint access tokens
	RefreshToken string
	// BaseURL overrides the mall-derived API base URL (used in tests)
	BaseURL string
	// APIVersion is sent in the X-Cafe24-Api-Version header
	APIVersion string
	// PageSize is the limit used for catalog listing
	PageSize int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// DefaultAPIVersion is the admin API version this adapter targets
const DefaultAPIVersion = "2025-06-01"

// Errors for Cafe24 configuration
var (
	ErrConfigMissingMallID       = errors.New("cafe24: mall id is required")
	ErrConfigMissingClientID     = errors.New("cafe24: client id is required")
	ErrConfigMissingClientSecret = errors.New("cafe24: client secret is required")
	ErrConfigMissingRefreshToken = errors.New("cafe24: refresh token is required")
)

// NewConfig creates a new Cafe24 configuration with defaults
func NewConfig(mallID, clientID, clientSecret, refreshToken string) *Config {
	return &Config{
		MallID:         mallID,
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		RefreshToken:   refreshToken,
		APIVersion:     DefaultAPIVersion,
		PageSize:       100,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Cafe24 configuration
func (c *Config) Validate() error {
	if c.MallID == "" {
		return ErrConfigMissingMallID
	}
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	if c.RefreshToken == "" {
		return ErrConfigMissingRefreshToken
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("https://%s.cafe24api.com", c.MallID)
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// BasicAuth returns the Basic credential used on the token endpoint
func (c *Config) BasicAuth() string {
	raw := c.ClientID + ":" + c.ClientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}
