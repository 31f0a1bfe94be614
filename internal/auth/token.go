package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type TokenType string

const (
	TokenTypeUndefined   TokenType = ""
	TokenTypeCoordinator TokenType = "coordinator"
	TokenTypeAdmin       TokenType = "admin"
)

// TokenSecretKey signs and verifies organiser tokens. Empty disables auth.
var TokenSecretKey string

type TokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Enabled reports whether a signing secret is configured.
func Enabled() bool {
	return TokenSecretKey != ""
}

// GenerateToken issues a token for the organiser identified by uid.
func GenerateToken(tokenType TokenType, uid string, dur time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(TokenSecretKey))
}

func VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			alg, _ := token.Header["alg"].(string)
			return nil, errors.Wrap(ErrInvalidSigningMethod, alg)
		}
		return []byte(TokenSecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// HasType reports whether the claims carry one of the allowed types.
func (c *TokenClaims) HasType(allowed ...TokenType) bool {
	for _, t := range allowed {
		if c.Type == t {
			return true
		}
	}
	return false
}
