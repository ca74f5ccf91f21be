package authstore

import (
	"context"
	"time"
)

// Authenticator validates a credential pair. It returns false with a nil
// error on a plain mismatch; a non-nil error means the check itself failed.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (bool, error)
}

// Demo credentials accepted by the mock authenticator.
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password"
)

// MockAuthenticator stands in for a real backend. It accepts exactly one
// hardcoded credential pair after an artificial delay.
type MockAuthenticator struct {
	Delay time.Duration
}

// NewMockAuthenticator returns the mock with the given artificial delay.
func NewMockAuthenticator(delay time.Duration) *MockAuthenticator {
	return &MockAuthenticator{Delay: delay}
}

// Authenticate sleeps for the configured delay, then compares against the
// demo credentials.
func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (bool, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	return email == DemoEmail && password == DemoPassword, nil
}
