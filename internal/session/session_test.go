package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/notify"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func loginResponse(token string) backend.LoginResponse {
	return backend.LoginResponse{
		AccessToken: token,
		User: backend.SessionUser{
			ID:        "U-1",
			Email:     "maria@municipio.gov",
			FirstName: "María",
			LastName:  "García",
			Role:      backend.RoleCallCenter,
		},
	}
}

func TestFromLogin_ReadsExpiry(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"sub": "U-1", "exp": exp.Unix()})

	s, err := FromLogin(loginResponse(token))
	require.NoError(t, err)

	assert.True(t, s.ExpiresAt.Equal(exp), "ExpiresAt = %v", s.ExpiresAt)
	assert.False(t, s.Expired(exp.Add(-time.Second)))
	assert.True(t, s.Expired(exp))
	assert.Equal(t, "María García", s.Actor())
}

func TestFromLogin_OpaqueTokenHasNoExpiry(t *testing.T) {
	s, err := FromLogin(loginResponse("opaque-token"))
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.False(t, s.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestFromLogin_RequiresToken(t *testing.T) {
	_, err := FromLogin(loginResponse(" "))
	assert.Error(t, err)
}

func TestActorDefaultsWhenNameUnknown(t *testing.T) {
	assert.Equal(t, notify.DefaultActor, Session{}.Actor())
	assert.Equal(t, "García", Session{User: User{LastName: " García "}}.Actor())
}

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	exp := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})

	s, err := FromLogin(loginResponse(token))
	require.NoError(t, err)
	require.NoError(t, Save(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path, exp.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, s.Token, loaded.Token)
	assert.Equal(t, s.User, loaded.User)
	assert.True(t, loaded.ExpiresAt.Equal(exp))

	_, err = Load(path, exp.Add(time.Minute))
	assert.ErrorIs(t, err, ErrExpired)

	require.NoError(t, Clear(path))
	require.NoError(t, Clear(path), "clearing twice is fine")
	_, err = Load(path, time.Now())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSave_TightensExistingFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	require.NoError(t, Save(path, Session{Token: "t"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("token = ["), 0o600))

	_, err := Load(path, time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSession))
	assert.Contains(t, err.Error(), "parse session")
}
