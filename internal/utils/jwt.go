package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminSubject = "admin"

// GenerateAdminToken creates a signed JWT for the admin console session.
func GenerateAdminToken(secret string, ttl time.Duration) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   adminSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAdminToken validates an admin token.
func ParseAdminToken(secret, tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject != adminSubject {
		return errors.New("invalid admin token")
	}
	return nil
}
