package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/session"
)

var issuedAt = time.Date(2024, time.September, 3, 14, 0, 0, 0, time.UTC)

func issue(t *testing.T, userID int64, email string) string {
	t.Helper()
	tokens, err := auth.NewJWTService("session-secret", false, clock.NewManual(issuedAt))
	require.NoError(t, err)
	tok, err := tokens.CreateToken(userID, email)
	require.NoError(t, err)
	return tok.Token
}

func TestBootstrap_RestoresLiveToken(t *testing.T) {
	token := issue(t, 42, "ann@example.com")
	m := session.NewManager(session.NewMemoryStore(token), clock.NewManual(issuedAt.Add(30*time.Minute)))

	require.NoError(t, m.Bootstrap())

	id, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.True(t, id.ExpiresAt.Equal(issuedAt.Add(time.Hour)))

	got, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, token, got)
}

func TestBootstrap_DropsExpiredToken(t *testing.T) {
	store := session.NewMemoryStore(issue(t, 42, "ann@example.com"))
	m := session.NewManager(store, clock.NewManual(issuedAt.Add(time.Hour)))

	require.NoError(t, m.Bootstrap())

	_, ok := m.Current()
	assert.False(t, ok)
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBootstrap_DropsUndecodableToken(t *testing.T) {
	store := session.NewMemoryStore("definitely.not.ajwt")
	m := session.NewManager(store, clock.NewManual(issuedAt))

	require.NoError(t, m.Bootstrap())

	_, ok := m.Token()
	assert.False(t, ok)
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestLoginLogout(t *testing.T) {
	store := session.NewMemoryStore("")
	m := session.NewManager(store, clock.NewManual(issuedAt))
	require.NoError(t, m.Bootstrap())

	_, err := m.Require()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	token := issue(t, 7, "bo@example.com")
	id, err := m.Login(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)
	stored, _ := store.Load()
	assert.Equal(t, token, stored)

	id, err = m.Require()
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", id.Email)

	require.NoError(t, m.Logout())
	_, ok := m.Current()
	assert.False(t, ok)
	stored, _ = store.Load()
	assert.Empty(t, stored)
}

func TestLogin_RejectsGarbage(t *testing.T) {
	store := session.NewMemoryStore("")
	m := session.NewManager(store, clock.NewManual(issuedAt))

	_, err := m.Login("garbage")
	assert.ErrorIs(t, err, session.ErrUndecodableToken)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestRequire_ForgetsTokenThatExpiredSinceBootstrap(t *testing.T) {
	clk := clock.NewManual(issuedAt)
	store := session.NewMemoryStore(issue(t, 42, "ann@example.com"))
	m := session.NewManager(store, clk)
	require.NoError(t, m.Bootstrap())

	clk.Advance(time.Hour - time.Second)
	_, err := m.Require()
	require.NoError(t, err)

	clk.Advance(time.Second)
	_, err = m.Require()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	_, ok := m.Token()
	assert.False(t, ok)
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc.def.ghi"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	token, err := session.NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
