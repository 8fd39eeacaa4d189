package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeNotifier runs the message notification fan-out worker.
	ServiceModeNotifier ServiceMode = "notifier"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeNotifier}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeNotifier:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: %v)", serviceName, ValidServiceModes())
		}
	}

	if len(services) == 0 {
		return services, errors.New("at least one service must be specified")
	}

	return services, nil
}

// OracleConfig contains price oracle configuration.
// The oracle is an external HTTP collaborator; only its endpoint, the
// JMESPath to the quote value in its response, and cache policy are ours.
type OracleConfig struct {
	// URL is the quote endpoint; "{symbol}" is replaced per request.
	URL string `env:"URL" envDefault:""`

	// QuotePath is a JMESPath expression locating the numeric quote in the
	// oracle's JSON response (e.g. "data.rates.USD").
	QuotePath string `env:"QUOTE_PATH" envDefault:"data.rates.USD"`

	// CacheTTL is how long fetched quotes are cached in Redis.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1m"`

	// Timeout bounds a single oracle fetch.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to oracle configuration values.
func (o *OracleConfig) Sanitize() {
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Minute
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
}

// CertificateConfig contains certificate issuer configuration.
// Certificate rendering is an external collaborator consumed as a black box.
type CertificateConfig struct {
	// IssuerURL is the external certificate service endpoint.
	IssuerURL string `env:"ISSUER_URL" envDefault:""`

	// Timeout bounds a single issue request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}
