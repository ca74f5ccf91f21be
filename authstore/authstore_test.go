package authstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/mobileshop/loginstore"
)

type failingAuthenticator struct{}

func (failingAuthenticator) Authenticate(ctx context.Context, email, password string) (bool, error) {
	return false, errors.New("backend unreachable")
}

func newTestStore() (*Store, *loginstore.LocalLoginStore) {
	logins := loginstore.NewLocalLoginStore()
	return New(NewMockAuthenticator(0), logins), logins
}

func TestLoginSuccess(t *testing.T) {
	s, logins := newTestStore()

	state := s.Login(context.Background(), DemoEmail, DemoPassword, "X")
	require.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, SentinelUserID, state.User.ID)
	assert.Equal(t, "X", state.User.Name)
	assert.Equal(t, DemoEmail, state.User.Email)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)

	// The login record is saved as a side effect.
	rec, err := logins.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, loginstore.Record{Email: DemoEmail, Name: "X"}, *rec)
}

func TestLoginDefaultsUserName(t *testing.T) {
	s, _ := newTestStore()

	state := s.Login(context.Background(), DemoEmail, DemoPassword, "")
	require.NotNil(t, state.User)
	assert.Equal(t, DefaultUserName, state.User.Name)
}

func TestLoginMismatch(t *testing.T) {
	s, logins := newTestStore()

	state := s.Login(context.Background(), "bad@x.com", "wrong", "")
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.False(t, state.IsLoading)
	assert.Equal(t, ErrMsgInvalidCredentials, state.Err)

	// A failed login clears any stored record.
	rec, err := logins.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLoginAuthenticatorFailure(t *testing.T) {
	s := New(failingAuthenticator{}, loginstore.NewLocalLoginStore())

	state := s.Login(context.Background(), DemoEmail, DemoPassword, "")
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Equal(t, ErrMsgLoginFailed, state.Err)
}

func TestLoginClearsPreviousError(t *testing.T) {
	s, _ := newTestStore()

	s.Login(context.Background(), "bad@x.com", "wrong", "")
	state := s.Login(context.Background(), DemoEmail, DemoPassword, "")
	assert.True(t, state.IsAuthenticated)
	assert.Empty(t, state.Err)
}

func TestLogout(t *testing.T) {
	s, logins := newTestStore()
	s.Login(context.Background(), DemoEmail, DemoPassword, "")

	state := s.Logout(context.Background())
	assert.Nil(t, state.User)
	assert.False(t, state.IsAuthenticated)

	rec, err := logins.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Logging out again yields the same state.
	assert.Equal(t, state, s.Logout(context.Background()))
}

func TestClearError(t *testing.T) {
	s, _ := newTestStore()
	s.Login(context.Background(), "bad@x.com", "wrong", "")

	s.ClearError()
	state := s.Snapshot()
	assert.Empty(t, state.Err)
	assert.False(t, state.IsAuthenticated)
}

func TestRestore(t *testing.T) {
	logins := loginstore.NewLocalLoginStore()
	require.NoError(t, logins.Save(context.Background(), loginstore.Record{Email: "saved@example.com", Name: "Saved"}))

	s := New(NewMockAuthenticator(0), logins)
	require.NoError(t, s.Restore(context.Background()))

	state := s.Snapshot()
	require.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, SentinelUserID, state.User.ID)
	assert.Equal(t, "Saved", state.User.Name)
	assert.Equal(t, "saved@example.com", state.User.Email)
}

func TestRestoreWithoutRecord(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Restore(context.Background()))

	state := s.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
}

func TestConcurrentLoginsSerialize(t *testing.T) {
	s, _ := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Login(context.Background(), DemoEmail, DemoPassword, "X")
		}()
	}
	wg.Wait()

	state := s.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore()
	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	// Login mutates twice: loading, then resolution.
	s.Login(context.Background(), DemoEmail, DemoPassword, "")
	assert.Equal(t, 2, calls)

	unsubscribe()
	s.Logout(context.Background())
	assert.Equal(t, 2, calls)
}
