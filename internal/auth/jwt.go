package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rlourenco/bicicletario/internal/common"
)

// Claims carries the standard registered claims plus the operator identity
// and permission map, so the gate can answer capability checks without
// re-reading the accounts file.
type Claims struct {
	jwt.RegisteredClaims
	UserName    string              `json:"username"`
	Permissions map[string][]string `json:"permissions"`
}

// GenerateToken signs a session token (HS256) for the account.
func GenerateToken(a Account, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserName:    a.UserName,
		Permissions: a.Permissions,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates a session token and returns its claims. Expired
// tokens map to common.ErrTokenExpired, anything else invalid to
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
