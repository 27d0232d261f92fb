package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestIssueToken_EmiteTokenValido(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "--user", "ops-1", "--role", "bodeguero", "--minutes", "5")
	require.NoError(t, err)

	claims, err := jwt.Parse("cli-secret", out)
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.UserID)
	assert.Equal(t, "bodeguero", claims.Role)
}

func TestIssueToken_RolDesconocido(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	_, err := run(t, "--user", "ops-1", "--role", "root")
	assert.Error(t, err)
}

func TestIssueToken_SinSecreto(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "--user", "ops-1")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestIssueToken_UsuarioObligatorio(t *testing.T) {
	_, err := run(t, "--role", "admin")
	assert.Error(t, err)
}
