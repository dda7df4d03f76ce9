// Package auth implements operator accounts and the capability gate the
// register core consults before every mutation. Accounts live in a JSON
// file maintained by the administration side; a successful login yields a
// signed session token whose claims embed the operator's permission map.
package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/rlourenco/bicicletario/internal/common"
)

// Account is one operator: a username, a bcrypt password hash, and the
// actions the operator may perform per module, e.g.
// {"registros": ["ver", "adicionar", "editar"]}.
type Account struct {
	UserName     string              `json:"username"`
	PasswordHash string              `json:"passwordHash"`
	Permissions  map[string][]string `json:"permissions"`
}

// LoadAccounts reads the accounts file.
func LoadAccounts(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts %s: %w", path, err)
	}
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("unmarshal accounts %s: %w", path, err)
	}
	return accounts, nil
}

// HashPassword produces a bcrypt hash suitable for the accounts file.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (a *Account) checkPassword(password []byte) error {
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), password); err != nil {
		return common.ErrInvalidLoginPassword
	}
	return nil
}
