package loginstore

import (
	"context"
	"sync"
)

// LocalLoginStore keeps the login record in memory. It is used in tests and
// when no Redis address is configured; a restart then always starts logged
// out.
type LocalLoginStore struct {
	mu  sync.RWMutex
	rec *Record
}

// NewLocalLoginStore constructor.
func NewLocalLoginStore() *LocalLoginStore {
	return &LocalLoginStore{}
}

// Initialize does nothing for the in-memory store.
func (l *LocalLoginStore) Initialize(ctx context.Context) error {
	return nil
}

// Save stores a copy of the record.
func (l *LocalLoginStore) Save(ctx context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rec = &rec
	return nil
}

// Load returns the saved record, or nil when none is saved.
func (l *LocalLoginStore) Load(ctx context.Context) (*Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.rec == nil {
		return nil, nil
	}
	rec := *l.rec
	return &rec, nil
}

// Clear deletes the saved record. Clearing an empty store is a no-op.
func (l *LocalLoginStore) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rec = nil
	return nil
}

// Ping always reports healthy.
func (l *LocalLoginStore) Ping(ctx context.Context) bool {
	return true
}
