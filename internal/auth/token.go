// Package auth guards the ingest API with a single shared bearer token.
// Only the bcrypt hash of the token is ever configured or stored.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var ErrInvalidToken = errors.New("invalid token")

func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckToken(hash, token string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
		return ErrInvalidToken
	}
	return nil
}
