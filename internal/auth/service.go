package auth

import (
	"time"

	"github.com/rlourenco/bicicletario/internal/common"
)

// Service authenticates operators against the loaded accounts and hands out
// permission gates bound to session tokens.
type Service struct {
	accounts  []Account
	secretKey []byte
	validity  time.Duration
}

func NewService(accounts []Account, secretKey []byte, validity time.Duration) *Service {
	return &Service{accounts: accounts, secretKey: secretKey, validity: validity}
}

// Login verifies the password and returns a signed session token.
func (s *Service) Login(userName string, password []byte) (string, error) {
	for i := range s.accounts {
		if s.accounts[i].UserName == userName {
			if err := s.accounts[i].checkPassword(password); err != nil {
				return "", err
			}
			return GenerateToken(s.accounts[i], s.secretKey, s.validity)
		}
	}
	return "", common.ErrInvalidLoginPassword
}

// Gate validates a session token and returns the capability gate for it.
func (s *Service) Gate(token string) (*Gate, error) {
	claims, err := ParseToken(token, s.secretKey)
	if err != nil {
		return nil, err
	}
	return &Gate{claims: claims}, nil
}

// Gate answers capability checks from the session's embedded permissions.
// It satisfies register.Gate.
type Gate struct {
	claims *Claims
}

// UserName returns the operator the gate belongs to.
func (g *Gate) UserName() string {
	return g.claims.UserName
}

// Has reports whether the session may perform action on module.
func (g *Gate) Has(module, action string) bool {
	for _, a := range g.claims.Permissions[module] {
		if a == action {
			return true
		}
	}
	return false
}

// Require returns a *common.PermissionError naming the missing capability,
// or nil when the session has it.
func (g *Gate) Require(module, action string) error {
	if !g.Has(module, action) {
		return &common.PermissionError{Module: module, Action: action}
	}
	return nil
}
