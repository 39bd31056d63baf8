package config

import (
	"fmt"
	"net/http"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port         int    `envconfig:"PORT" default:"80"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	MaxBodyBytes int64  `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// Braintree
	BraintreeEnabled         bool   `envconfig:"BRAINTREE_ENABLED" default:"true"`
	BraintreePath            string `envconfig:"BRAINTREE_PATH" default:"/callbacks/braintree"`
	BraintreeRejectionStatus int    `envconfig:"BRAINTREE_REJECTION_STATUS" default:"422"`

	// PayPal
	PayPalEnabled         bool   `envconfig:"PAYPAL_ENABLED" default:"true"`
	PayPalPath            string `envconfig:"PAYPAL_PATH" default:"/callbacks/paypal"`
	PayPalRejectionStatus int    `envconfig:"PAYPAL_REJECTION_STATUS" default:"422"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"shipcallback"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot constrain.
func (c *Config) Validate() error {
	if !isClientError(c.BraintreeRejectionStatus) {
		return fmt.Errorf("BRAINTREE_REJECTION_STATUS %d is not a 4xx status", c.BraintreeRejectionStatus)
	}
	if !isClientError(c.PayPalRejectionStatus) {
		return fmt.Errorf("PAYPAL_REJECTION_STATUS %d is not a 4xx status", c.PayPalRejectionStatus)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.BraintreeEnabled && c.PayPalEnabled && c.BraintreePath == c.PayPalPath {
		return fmt.Errorf("BRAINTREE_PATH and PAYPAL_PATH are both %q", c.BraintreePath)
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("braintree.enabled", c.BraintreeEnabled),
		attribute.Int("braintree.rejection_status", c.BraintreeRejectionStatus),
		attribute.Bool("paypal.enabled", c.PayPalEnabled),
	}
}

func isClientError(status int) bool {
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
