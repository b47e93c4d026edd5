package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() User {
	return User{
		ID:       "u1",
		Email:    "user@example.com",
		Name:     "Test User",
		Role:     RoleAdmin,
		IsActive: true,
	}
}

func testTenant() *Tenant {
	return &Tenant{ID: "t1", TenantID: "tenant-1", Name: "Acme"}
}

func TestStore_SetAuth(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	err := store.SetAuth("tok1", testUser(), testTenant(), false)
	require.NoError(t, err)

	assert.True(t, store.IsAuthenticated())

	current := store.Current()
	assert.Equal(t, "tok1", current.Token)
	require.NotNil(t, current.User)
	assert.Equal(t, "u1", current.User.ID)
	assert.Equal(t, "user@example.com", current.User.Email)
	require.NotNil(t, current.Tenant)
	assert.Equal(t, "t1", current.Tenant.ID)
	assert.False(t, current.IsMaster)
	assert.True(t, current.IsAuthenticated)
}

func TestStore_SetAuthEmptyToken(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	err := store.SetAuth("", testUser(), testTenant(), false)
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_SetAuthOverwritesTenant(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.SetAuth("tok1", testUser(), testTenant(), false))
	require.NoError(t, store.SetAuth("tok2", testUser(), &Tenant{ID: "t2", TenantID: "tenant-2", Name: "Beta"}, true))

	current := store.Current()
	assert.Equal(t, "tok2", current.Token)
	require.NotNil(t, current.Tenant)
	// The tenant record is replaced entirely, never merged.
	assert.Equal(t, "t2", current.Tenant.ID)
	assert.Equal(t, "Beta", current.Tenant.Name)
	assert.True(t, current.IsMaster)
}

func TestStore_SetAuthWithoutTenant(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.SetAuth("tok1", testUser(), nil, true))

	current := store.Current()
	assert.True(t, current.IsAuthenticated)
	assert.Nil(t, current.Tenant)
	assert.True(t, current.IsMaster)
}

func TestStore_ClearAuth(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.SetAuth("tok1", testUser(), testTenant(), false))
	require.NoError(t, store.ClearAuth())

	assert.False(t, store.IsAuthenticated())
	current := store.Current()
	assert.Empty(t, current.Token)
	assert.Nil(t, current.User)
	assert.Nil(t, current.Tenant)
	assert.False(t, current.IsMaster)
	assert.Empty(t, store.Token())
}

func TestStore_ClearAuthIdempotent(t *testing.T) {
	store := NewStore(NewMemoryStorage())

	require.NoError(t, store.ClearAuth())
	require.NoError(t, store.ClearAuth())
	assert.False(t, store.IsAuthenticated())
}

func TestStore_RestoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(NewFileStorage(path))
	require.NoError(t, store.SetAuth("tok1", testUser(), testTenant(), true))

	// A fresh store over the same file simulates a new process.
	restored := NewStore(NewFileStorage(path))
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, store.Current(), restored.Current())
}

func TestStore_RestoreEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(NewFileStorage(path))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, Session{}, store.Current())
}

func TestStore_RestoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(NewFileStorage(path))
	assert.False(t, store.IsAuthenticated())
}

func TestStore_TokenReadsStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store := NewStore(NewFileStorage(path))
	require.NoError(t, store.SetAuth("tok1", testUser(), testTenant(), false))
	assert.Equal(t, "tok1", store.Token())

	// A second store sharing the snapshot clears it; the first store's
	// lazy read observes the change on the next call.
	other := NewStore(NewFileStorage(path))
	require.NoError(t, other.ClearAuth())
	assert.Empty(t, store.Token())
}

func TestFileStorage_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	storage := NewFileStorage(path)

	require.NoError(t, storage.Save(Session{Token: "tok", IsAuthenticated: true}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{RoleMember, true},
		{RoleViewer, true},
		{Role("superuser"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}
