package awesomesauce

import (
	"strings"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
)

// Gateway endpoints, fixed per action
const (
	EndpointAuth = "/api/auth" // purchase, authorize
	EndpointRef  = "/api/ref"  // capture, void, refund
)

// Config contains configuration for the AwesomeSauce gateway adapter
type Config struct {
	// Base URLs, the endpoint path is appended to one of them
	// Sandbox: http://sandbox.asgateway.com
	// Production: https://prod.awesomesauce.com
	TestURL string
	LiveURL string

	// TestMode selects TestURL and marks every result as a test result
	TestMode bool

	Credentials domain.Credentials
}

// DefaultConfig returns default configuration for the given environment
func DefaultConfig(environment string) *Config {
	return &Config{
		TestURL:  "http://sandbox.asgateway.com",
		LiveURL:  "https://prod.awesomesauce.com",
		TestMode: environment != "production",
	}
}

// BaseURL returns the URL for the configured mode
func (c *Config) BaseURL() string {
	if c.TestMode {
		return c.TestURL
	}
	return c.LiveURL
}

// URL combines the base URL with an endpoint path
func (c *Config) URL(endpoint string) string {
	return strings.TrimRight(c.BaseURL(), "/") + endpoint
}

// Info describes the gateway to callers that list available gateways
type Info struct {
	DisplayName        string
	HomepageURL        string
	SupportedCountries []string
	DefaultCurrency    string
	SupportedCardTypes []string
	SupportsScrubbing  bool
	TestMode           bool
}
