package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlourenco/bicicletario/internal/common"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	hash, err := HashPassword([]byte("s3cret"))
	require.NoError(t, err)

	accounts := []Account{
		{
			UserName:     "maria",
			PasswordHash: hash,
			Permissions:  map[string][]string{"registros": {"ver", "adicionar", "editar"}},
		},
		{
			UserName:     "viewer",
			PasswordHash: hash,
			Permissions:  map[string][]string{"registros": {"ver"}},
		},
	}
	return NewService(accounts, []byte("test-secret"), time.Hour)
}

func TestService_Login(t *testing.T) {
	s := newTestService(t)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := s.Login("maria", []byte("s3cret"))
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login("maria", []byte("wrong"))
		assert.ErrorIs(t, err, common.ErrInvalidLoginPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Login("ghost", []byte("s3cret"))
		assert.ErrorIs(t, err, common.ErrInvalidLoginPassword)
	})
}

func TestService_GatePermissions(t *testing.T) {
	s := newTestService(t)

	token, err := s.Login("viewer", []byte("s3cret"))
	require.NoError(t, err)

	gate, err := s.Gate(token)
	require.NoError(t, err)
	assert.Equal(t, "viewer", gate.UserName())

	assert.True(t, gate.Has("registros", "ver"))
	assert.False(t, gate.Has("registros", "editar"))
	assert.False(t, gate.Has("clientes", "ver"))

	require.NoError(t, gate.Require("registros", "ver"))

	err = gate.Require("registros", "editar")
	require.ErrorIs(t, err, common.ErrPermissionDenied)

	var perr *common.PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "registros", perr.Module)
	assert.Equal(t, "editar", perr.Action)
}

func TestService_GateRejectsBadToken(t *testing.T) {
	s := newTestService(t)

	_, err := s.Gate("bogus")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLoadAccounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")

	accounts := []Account{{
		UserName:     "maria",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Permissions:  map[string][]string{"registros": {"ver"}},
	}}
	b, err := json.Marshal(accounts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	got, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "maria", got[0].UserName)
	assert.Equal(t, []string{"ver"}, got[0].Permissions["registros"])

	_, err = LoadAccounts(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
