package coupang

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Config holds configuration for the Coupang WING open API
type Config struct {
	// AccessKey is the open API access key
	AccessKey string
	// SecretKey is the open API secret key, used to sign every request
	SecretKey string
	// VendorID is the seller's vendor id (A-prefixed)
	VendorID string
	// BaseURL is the API gateway base URL
	BaseURL string
	// PageSize is the page size used for catalog listing
	PageSize int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// CoupangProductionAPIURL is the production API gateway endpoint
const CoupangProductionAPIURL = "https://api-gateway.coupang.com"

// signedDateLayout is the datetime format Coupang expects in signatures
const signedDateLayout = "060102T150405Z"

// Errors for Coupang configuration
var (
	ErrConfigMissingAccessKey = errors.New("coupang: access key is required")
	ErrConfigMissingSecretKey = errors.New("coupang: secret key is required")
	ErrConfigMissingVendorID  = errors.New("coupang: vendor id is required")
)

// NewConfig creates a new Coupang configuration with defaults
func NewConfig(accessKey, secretKey, vendorID string) *Config {
	return &Config{
		AccessKey:      accessKey,
		SecretKey:      secretKey,
		VendorID:       vendorID,
		BaseURL:        CoupangProductionAPIURL,
		PageSize:       50,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Coupang configuration
func (c *Config) Validate() error {
	if c.AccessKey == "" {
		return ErrConfigMissingAccessKey
	}
	if c.SecretKey == "" {
		return ErrConfigMissingSecretKey
	}
	if c.VendorID == "" {
		return ErrConfigMissingVendorID
	}
	if c.BaseURL == "" {
		c.BaseURL = CoupangProductionAPIURL
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// AuthorizationHeader builds the CEA authorization header for one request.
// The signed message is datetime + method + path + query, keyed with
// HMAC-SHA256 over the secret key.
func (c *Config) AuthorizationHeader(method, path, query string, now time.Time) string {
	datetime := now.UTC().Format(signedDateLayout)

	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(datetime + method + path + query))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf(
		"CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s",
		c.AccessKey, datetime, signature)
}
