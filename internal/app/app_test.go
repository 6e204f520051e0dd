package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/session"
)

func writeConfig(t *testing.T, apiURL string) Options {
	t.Helper()
	t.Setenv("RECLAMOS_API_URL", "")
	t.Setenv("RECLAMOS_ORGANIZATION_ID", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\nlog_file = %q\nlog_level = \"debug\"\n", apiURL, filepath.Join(dir, "reclamos.log"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return Options{
		ConfigPath:  configPath,
		PrefsPath:   filepath.Join(dir, "prefs.toml"),
		SessionPath: filepath.Join(dir, "session.toml"),
	}
}

func loginServer(t *testing.T, role string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		var req backend.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized","statusCode":401}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(backend.LoginResponse{
			AccessToken: "opaque-token",
			User:        backend.SessionUser{ID: "u-1", Email: "juan@muni.gob.ar", FirstName: "Juan", LastName: "Pérez", Role: role},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSetup_UsesConfig(t *testing.T) {
	opts := writeConfig(t, "http://api.example:3001/")
	opts.PollEvery = 2 * time.Second

	env, err := Setup(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	assert.Equal(t, "http://api.example:3001", env.Client.BaseURL())
	assert.Equal(t, 2*time.Second, env.Config.PollInterval)
	assert.Equal(t, "debug", env.Logger.GetLevel().String())
}

func TestSetup_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval = \"soon\"\n"), 0o644))

	_, err := Setup(Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoginStoresSessionAndLogoutClears(t *testing.T) {
	srv := loginServer(t, backend.RoleCallCenter)
	opts := writeConfig(t, srv.URL)

	sess, err := Login(context.Background(), opts, "30111222", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", sess.Actor())

	loaded, err := session.Load(opts.SessionPath, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", loaded.Token)

	env, err := Setup(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	authed, err := env.Authenticate(opts)
	require.NoError(t, err)
	assert.Equal(t, "juan@muni.gob.ar", authed.User.Email)

	require.NoError(t, Logout(opts))
	_, err = session.Load(opts.SessionPath, time.Now())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogin_Failures(t *testing.T) {
	srv := loginServer(t, "DRIVER")
	opts := writeConfig(t, srv.URL)

	_, err := Login(context.Background(), opts, "30111222", "wrong")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	_, err = Login(context.Background(), opts, "30111222", "secreto")
	assert.ErrorIs(t, err, backend.ErrForbiddenRole)

	_, statErr := os.Stat(opts.SessionPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRun_RequiresSession(t *testing.T) {
	opts := writeConfig(t, "http://127.0.0.1:1")

	err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Contains(t, err.Error(), "reclamos login")
}

func TestConnectAndAddUser(t *testing.T) {
	var got backend.CreateUserRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(backend.LoginResponse{
				AccessToken: "tok",
				User:        backend.SessionUser{ID: "u-1", FirstName: "Ana", Role: backend.RoleAdmin},
			})
		case "/users":
			auth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&got)
			_, _ = w.Write([]byte(`{"mensaje":"Usuario creado"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	opts := writeConfig(t, srv.URL)

	_, _, err := Connect(opts)
	require.ErrorIs(t, err, session.ErrNoSession)

	_, err = Login(context.Background(), opts, "1", "x")
	require.NoError(t, err)

	env, sess, err := Connect(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	assert.Equal(t, "Ana", sess.Actor())

	_, err = env.AddUser(context.Background(), backend.CreateUserRequest{FirstName: "Luis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last name, dni, role")

	resp, err := env.AddUser(context.Background(), backend.CreateUserRequest{
		FirstName: "Luis", LastName: "Gómez", DNI: "28999111", Role: " driver ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Usuario creado", resp.Message)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "DRIVER", got.Role)
	assert.Equal(t, env.Config.OrganizationID, got.OrganizationID)
}

func TestUpdateUser(t *testing.T) {
	var (
		method, path string
		got          backend.CreateUserRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"mensaje":"Usuario actualizado"}`))
	}))
	t.Cleanup(srv.Close)
	opts := writeConfig(t, srv.URL)

	env, err := Setup(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	_, err = env.UpdateUser(context.Background(), "u-7", backend.CreateUserRequest{})
	require.Error(t, err)
	_, err = env.UpdateUser(context.Background(), " ", backend.CreateUserRequest{Area: "Norte"})
	require.Error(t, err)
	assert.Empty(t, path, "invalid updates never reach the backend")

	resp, err := env.UpdateUser(context.Background(), "u-7", backend.CreateUserRequest{Area: "Norte", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "Usuario actualizado", resp.Message)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/users/u-7", path)
	assert.Equal(t, "ADMIN", got.Role)
	assert.Equal(t, "Norte", got.Area)
	assert.Empty(t, got.OrganizationID)
}
