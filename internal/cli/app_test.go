package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlourenco/bicicletario/internal/auth"
	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/register"
)

var _ execIface = (*App)(nil)

func operatorGate(t *testing.T, permissions map[string][]string) *auth.Gate {
	t.Helper()

	acc := auth.Account{UserName: "op", Permissions: permissions}
	token, err := auth.GenerateToken(acc, []byte("test-key"), time.Hour)
	require.NoError(t, err)

	gate, err := auth.NewService(nil, []byte("test-key"), time.Hour).Gate(token)
	require.NoError(t, err)
	return gate
}

func TestSessionGate(t *testing.T) {
	sg := &sessionGate{}

	t.Run("denies everything before login", func(t *testing.T) {
		assert.False(t, sg.Has(register.ModuleRegister, register.ActionView))

		err := sg.Require(register.ModuleRegister, register.ActionAdd)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("delegates to the session after login", func(t *testing.T) {
		sg.set(operatorGate(t, map[string][]string{
			register.ModuleRegister: {register.ActionView},
		}))

		assert.True(t, sg.Has(register.ModuleRegister, register.ActionView))
		assert.NoError(t, sg.Require(register.ModuleRegister, register.ActionView))

		err := sg.Require(register.ModuleRegister, register.ActionEdit)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("denies again after logout", func(t *testing.T) {
		sg.set(nil)
		assert.False(t, sg.Has(register.ModuleRegister, register.ActionView))
	})
}

func TestAppStatus(t *testing.T) {
	a := &App{day: "2025-03-10"}
	assert.Equal(t, "(2025-03-10)", a.status())

	a.userName = "op"
	assert.Equal(t, "(op 2025-03-10)", a.status())

	a.filter = "caloi"
	assert.Equal(t, "(op 2025-03-10 ~caloi)", a.status())
}
