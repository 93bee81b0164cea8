// Package auth handles authentication business logic for the dashboard and
// API. The service is framework-agnostic; HTTP wiring lives in
// handler/http/auth.
package auth

import (
	"context"
	"strings"
)

// Credentials represents authentication credentials. Access is gated by a
// single shared password, so there is no username.
type Credentials struct {
	Password string
}

// CredentialRequirements defines password policy requirements.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// Provider defines the interface for authentication providers.
type Provider interface {
	// ValidateCredentials validates the supplied credentials.
	ValidateCredentials(ctx context.Context, creds Credentials) error

	// GetRequirements returns the credential requirements for this provider.
	GetRequirements() CredentialRequirements

	// Name returns the name of this provider.
	Name() string
}

// Service validates credentials and knows which endpoints skip auth.
type Service struct {
	provider        Provider
	publicEndpoints []string
}

// NewService creates a new authentication service.
func NewService(provider Provider, publicEndpoints []string) *Service {
	return &Service{
		provider:        provider,
		publicEndpoints: publicEndpoints,
	}
}

// ValidateCredentials validates credentials via the configured provider.
func (s *Service) ValidateCredentials(ctx context.Context, creds Credentials) error {
	return s.provider.ValidateCredentials(ctx, creds)
}

// IsPublicEndpoint checks if a path is publicly accessible.
// Returns true if the path matches any configured public endpoint prefix.
func (s *Service) IsPublicEndpoint(path string) bool {
	for _, endpoint := range s.publicEndpoints {
		if strings.HasPrefix(path, endpoint) {
			return true
		}
	}
	return false
}

// GetProvider returns the current authentication provider.
func (s *Service) GetProvider() Provider {
	return s.provider
}
