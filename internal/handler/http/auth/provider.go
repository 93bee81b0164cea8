// Package auth wires JWT issuance and validation into the HTTP layer.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"

	authservice "github.com/AuroraDai/weihao/internal/service/auth"
)

// PasswordProvider implements shared-password authentication against the
// APP_PASSWORD environment variable.
type PasswordProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

// NewPasswordProvider creates a shared-password auth provider.
func NewPasswordProvider(minPasswordLength int, weakPasswords []string) *PasswordProvider {
	return &PasswordProvider{
		minPasswordLength: minPasswordLength,
		weakPasswords:     weakPasswords,
	}
}

// ValidateAppPassword checks the APP_PASSWORD environment variable at
// startup so the server refuses to boot with an empty or weak password.
func ValidateAppPassword(minLength int, weakPasswords []string) error {
	password := os.Getenv("APP_PASSWORD")
	if password == "" {
		return fmt.Errorf("APP_PASSWORD must be set")
	}
	if len(password) < minLength {
		return fmt.Errorf("APP_PASSWORD must be at least %d characters", minLength)
	}
	for _, weak := range weakPasswords {
		if password == weak || password == weak+"123" {
			return fmt.Errorf("APP_PASSWORD must not be a common weak value")
		}
	}
	return nil
}

// ValidateCredentials validates the supplied password against APP_PASSWORD.
func (p *PasswordProvider) ValidateCredentials(_ context.Context, creds authservice.Credentials) error {
	if creds.Password == "" {
		return fmt.Errorf("password must not be empty")
	}

	if len(creds.Password) < p.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}

	// Same predicate as ValidateAppPassword: a password that passed the
	// startup check must never be rejected here.
	for _, weak := range p.weakPasswords {
		if creds.Password == weak || creds.Password == weak+"123" {
			return fmt.Errorf("weak password detected")
		}
	}

	appPassword := os.Getenv("APP_PASSWORD")

	// タイミング攻撃対策として定数時間比較を使う
	if subtle.ConstantTimeCompare([]byte(creds.Password), []byte(appPassword)) != 1 {
		return fmt.Errorf("invalid credentials")
	}

	return nil
}

// GetRequirements returns the password requirements.
func (p *PasswordProvider) GetRequirements() authservice.CredentialRequirements {
	return authservice.CredentialRequirements{
		MinPasswordLength: p.minPasswordLength,
		WeakPasswords:     p.weakPasswords,
	}
}

// Name returns the provider name.
func (p *PasswordProvider) Name() string {
	return "password"
}
