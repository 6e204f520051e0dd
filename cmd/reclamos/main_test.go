package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)
}

func TestRun_Help(t *testing.T) {
	code, stdout, _ := runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "import-fuel")
}

func TestRun_LoginNeedsCredentials(t *testing.T) {
	code, _, stderr := runCLI(t, "login", "-dni", "123")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "-dni and -password")
}

func TestRun_ListRejectsUnknownStatus(t *testing.T) {
	code, _, stderr := runCLI(t, "list", "-status", "archived")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown status "archived"`)
}

func TestRun_CommandsNeedSession(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	body := "api_url = \"http://127.0.0.1:1\"\nlog_file = \"" + filepath.Join(dir, "r.log") + "\"\n"
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := runCLI(t, "-config", config, "-session", filepath.Join(dir, "none.toml"), "report", "-year", "2025", "-month", "3")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no active session")
}

func TestRun_LogoutWithoutSession(t *testing.T) {
	dir := t.TempDir()
	code, stdout, _ := runCLI(t, "-session", filepath.Join(dir, "session.toml"), "logout")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "sesión cerrada")
}

func TestRun_NewCommandsValidateArguments(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{"show without id", []string{"show"}, "show requires one complaint id"},
		{"add-sector without name", []string{"add-sector"}, "add-sector requires a name"},
		{"add-task-type blank name", []string{"add-task-type", "  "}, "add-task-type requires a name"},
		{"update-user without id", []string{"update-user", "-role", "admin"}, "update-user requires -id"},
		{"add-fuel bad liters", []string{"add-fuel", "-liters", "mucho"}, "invalid value"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tc.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tc.want)
		})
	}
}

func TestRun_ShowNeedsSession(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	body := "api_url = \"http://127.0.0.1:1\"\nlog_file = \"" + filepath.Join(dir, "r.log") + "\"\n"
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := runCLI(t, "-config", config, "-session", filepath.Join(dir, "none.toml"), "show", "c-1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no active session")
}

func TestRun_HelpListsCatalogCommands(t *testing.T) {
	_, stdout, _ := runCLI(t, "help")
	for _, cmd := range []string{"show", "add-fuel", "update-user", "add-sector", "add-task-type"} {
		assert.Contains(t, stdout, cmd)
	}
}
