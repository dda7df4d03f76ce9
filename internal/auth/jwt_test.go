package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlourenco/bicicletario/internal/common"
)

func testAccount() Account {
	return Account{
		UserName: "maria",
		Permissions: map[string][]string{
			"registros": {"ver", "adicionar", "editar"},
		},
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(testAccount(), secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.UserName)
	assert.Equal(t, []string{"ver", "adicionar", "editar"}, claims.Permissions["registros"])
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testAccount(), []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret-b"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testAccount(), []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret"))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", []byte("secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
