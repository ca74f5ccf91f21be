// Package loginstore persists the saved-login record that lets a session
// survive a restart.
package loginstore

import "context"

// Key is the durable storage key the login record is saved under.
const Key = "userLogin"

// Record is the minimal user record written on successful login and deleted
// on logout. It is JSON-encoded in storage.
type Record struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ILoginStore defines the operations on login-record storage.
type ILoginStore interface {
	Initialize(ctx context.Context) error

	Save(ctx context.Context, rec Record) error
	// Load returns the saved record, or nil when none is saved.
	Load(ctx context.Context) (*Record, error)
	Clear(ctx context.Context) error

	Ping(ctx context.Context) bool
}
