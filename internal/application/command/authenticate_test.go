package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func seedAccount(t *testing.T, f *fixture, username, password string, role identity.Role) *identity.Account {
	t.Helper()

	hash, err := plainHasher{}.Hash(password)
	require.NoError(t, err)

	account, err := identity.NewAccount(identity.NewAccountParams{
		ID:           f.ids.GenerateID(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		ProfileID:    "profile-" + username,
	})
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func TestLogin(t *testing.T) {
	f := newFixture()
	store := newMemSessionStore()
	h := NewLoginHandler(f.accounts, plainHasher{}, store, f.ids, time.Hour)
	account := seedAccount(t, f, "2023150300", "secret123", identity.RoleStudent)

	result, err := h.Handle(context.Background(), LoginCommand{
		Username: "2023150300",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, identity.RoleStudent, result.Role)
	assert.Equal(t, account.ID, result.AccountID)

	sess, err := store.Get(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, sess.AccountID)
	assert.False(t, sess.IsExpired(time.Now().UTC()))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture()
	store := newMemSessionStore()
	h := NewLoginHandler(f.accounts, plainHasher{}, store, f.ids, time.Hour)
	seedAccount(t, f, "2023150301", "secret123", identity.RoleStudent)

	_, err := h.Handle(context.Background(), LoginCommand{
		Username: "2023150301",
		Password: "wrong-pass",
	})
	require.Error(t, err)
	assert.True(t, shared.IsUnauthorized(err))
}

func TestLoginUnknownUsername(t *testing.T) {
	f := newFixture()
	store := newMemSessionStore()
	h := NewLoginHandler(f.accounts, plainHasher{}, store, f.ids, time.Hour)

	_, err := h.Handle(context.Background(), LoginCommand{
		Username: "nobody",
		Password: "whatever1",
	})
	require.Error(t, err)

	// Unknown username and wrong password read the same.
	assert.True(t, shared.IsUnauthorized(err))
}

func TestLogout(t *testing.T) {
	f := newFixture()
	store := newMemSessionStore()
	login := NewLoginHandler(f.accounts, plainHasher{}, store, f.ids, time.Hour)
	logout := NewLogoutHandler(store)
	seedAccount(t, f, "2023150302", "secret123", identity.RoleStudent)

	result, err := login.Handle(context.Background(), LoginCommand{
		Username: "2023150302",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, logout.Handle(context.Background(), result.Token))
	_, err = store.Get(context.Background(), result.Token)
	assert.True(t, shared.IsUnauthorized(err))

	// Logging out twice is fine.
	require.NoError(t, logout.Handle(context.Background(), result.Token))
}
