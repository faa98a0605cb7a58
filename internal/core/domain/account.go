package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the registered user entity. The password hash never leaves the
// process: it is excluded from JSON and from every response DTO.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAccount builds an account from validated registration input and an
// already-hashed password. The plaintext password must not reach this point.
func NewAccount(input RegistrationInput, passwordHash string) *Account {
	now := time.Now()
	return &Account{
		ID:           uuid.New().String(),
		Username:     input.Username,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
