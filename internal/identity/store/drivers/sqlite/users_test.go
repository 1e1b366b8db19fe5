package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser() domain.User {
	hash := "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"
	return domain.User{
		ID:           idx.New().String(),
		Email:        idx.New().String() + "@example.com",
		Name:         "Test User",
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		Provider:     domain.ProviderManual,
		Active:       true,
	}
}

func TestMemoryStoreSharedAcrossGoroutines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))

	// Without a pinned pool each new pooled connection would see its own
	// empty in-memory database and fail with "no such table".
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Users().GetByID(ctx, u.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.True(t, got.Active)
	assert.False(t, got.Blocked)
	assert.Nil(t, got.RefreshTokenHash)
	assert.EqualValues(t, 0, got.TokenVersion)

	byEmail, err := s.Users().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))

	dup := newTestUser()
	dup.Email = u.Email
	err := s.Users().Create(ctx, dup)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersGetMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetByID(ctx, idx.New().String())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRotateRefreshTokenHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "hash-a"))

	// First rotation with the current hash wins.
	require.NoError(t, s.Users().RotateRefreshTokenHash(ctx, u.ID, "hash-a", "hash-b"))

	// Replaying the old hash loses.
	err := s.Users().RotateRefreshTokenHash(ctx, u.ID, "hash-a", "hash-c")
	assert.ErrorIs(t, err, store.ErrStaleRefreshToken)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshTokenHash)
	assert.Equal(t, "hash-b", *got.RefreshTokenHash)
}

func TestUsersRotateAfterLogout(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "hash-a"))
	require.NoError(t, s.Users().ClearRefreshTokenHash(ctx, u.ID))

	err := s.Users().RotateRefreshTokenHash(ctx, u.ID, "hash-a", "hash-b")
	assert.ErrorIs(t, err, store.ErrStaleRefreshToken)
}

func TestUsersResetCredentials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "hash-a"))

	require.NoError(t, s.Users().ResetCredentials(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PasswordHash)
	assert.Equal(t, "new-hash", *got.PasswordHash)
	assert.Nil(t, got.RefreshTokenHash)
	assert.EqualValues(t, 1, got.TokenVersion)
}

func TestUsersActivateWithPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	u.PasswordHash = nil
	u.Active = false
	require.NoError(t, s.Users().Create(ctx, u))

	require.NoError(t, s.Users().ActivateWithPassword(ctx, u.ID, "invite-hash"))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.True(t, got.EmailVerified)
	assert.EqualValues(t, 1, got.TokenVersion)
	require.NotNil(t, got.PasswordHash)
	assert.Equal(t, "invite-hash", *got.PasswordHash)
}

func TestUsersMarkSocialLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))

	require.NoError(t, s.Users().MarkSocialLogin(ctx, u.ID, domain.ProviderGoogle))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, got.Provider)
	assert.True(t, got.EmailVerified)
}

func TestUsersListAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	a := newTestUser()
	b := newTestUser()
	require.NoError(t, s.Users().Create(ctx, a))
	require.NoError(t, s.Users().Create(ctx, b))

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, s.Users().Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Users().Delete(ctx, a.ID), store.ErrNotFound)

	users, err = s.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, b.ID, users[0].ID)
}

func TestUsersUpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser()
	require.NoError(t, s.Users().Create(ctx, u))

	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Renamed", domain.RoleAdmin, true, true))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.True(t, got.Blocked)
}
