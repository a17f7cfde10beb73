package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User represents an operator account in the registry document.
type User struct {
	Username     string `json:"username" yaml:"-"`
	PasswordHash string `json:"-" yaml:"password"` // bcrypt digest, never serialized to JSON
	APIKey       string `json:"api_key" yaml:"api_key"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
