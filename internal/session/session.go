// Package session persists the logged-in operator between runs.
//
// The session file holds the bearer token and the operator's identity. It is
// written with mode 0600 because the token grants API access. Token claims
// are read without verifying the signature; the backend verifies every
// request, the console only needs exp to know when to ask for a new login.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/config"
	"github.com/five82/reclamos/internal/notify"
)

const defaultSessionPath = "~/.config/reclamos/session.toml"

var (
	// ErrNoSession is returned by Load when nobody is logged in.
	ErrNoSession = errors.New("no active session; run `reclamos login`")
	// ErrExpired is returned by Load when the stored token has expired.
	ErrExpired = errors.New("session expired; run `reclamos login`")
)

// User is the persisted operator identity.
type User struct {
	ID        string `toml:"id"`
	Email     string `toml:"email"`
	FirstName string `toml:"first_name"`
	LastName  string `toml:"last_name"`
	Role      string `toml:"role"`
}

// Session is the persisted login.
type Session struct {
	Token     string    `toml:"token"`
	User      User      `toml:"user"`
	ExpiresAt time.Time `toml:"expires_at"`
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// FromLogin builds a Session from a login response, reading exp from the
// token when present.
func FromLogin(resp backend.LoginResponse) (Session, error) {
	if strings.TrimSpace(resp.AccessToken) == "" {
		return Session{}, fmt.Errorf("login response carried no token")
	}
	s := Session{
		Token: resp.AccessToken,
		User: User{
			ID:        resp.User.ID,
			Email:     resp.User.Email,
			FirstName: resp.User.FirstName,
			LastName:  resp.User.LastName,
			Role:      resp.User.Role,
		},
	}
	exp, err := tokenExpiry(resp.AccessToken)
	if err != nil {
		return Session{}, err
	}
	s.ExpiresAt = exp
	return s, nil
}

// Expired reports whether the token's exp has passed. Tokens without exp
// never expire locally.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Actor is the name recorded on notifications for actions taken in this
// session.
func (s Session) Actor() string {
	name := strings.TrimSpace(strings.TrimSpace(s.User.FirstName) + " " + strings.TrimSpace(s.User.LastName))
	if name == "" {
		return notify.DefaultActor
	}
	return name
}

func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are fine; there is just no local expiry.
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("parse token exp: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Load reads the session at path. It returns ErrNoSession when there is
// none and ErrExpired when the token is past its exp.
func Load(path string, now time.Time) (Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Session{}, err
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(s.Token) == "" {
		return Session{}, ErrNoSession
	}
	if s.Expired(now) {
		return s, ErrExpired
	}
	return s, nil
}

// Save writes the session with owner-only permissions.
func Save(path string, s Session) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(resolved, 0o600); err != nil {
		return fmt.Errorf("chmod session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func Clear(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultSessionPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}
	return resolved, nil
}
