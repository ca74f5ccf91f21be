package loginstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLoginStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewLocalLoginStore()
	require.NoError(t, s.Initialize(ctx))

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, s.Save(ctx, Record{Email: "test@example.com", Name: "Test User"}))
	rec, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, Record{Email: "test@example.com", Name: "Test User"}, *rec)

	require.NoError(t, s.Clear(ctx))
	rec, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Clearing again is a no-op.
	require.NoError(t, s.Clear(ctx))
	assert.True(t, s.Ping(ctx))
}

func TestLocalLoginStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewLocalLoginStore()
	require.NoError(t, s.Save(ctx, Record{Email: "a@b.c", Name: "A"}))

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	rec.Name = "mutated"

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}
