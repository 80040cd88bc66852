package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user of the accounts service.
// An account can only log in once it has been confirmed through the
// activation link sent at registration.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	IsActive       bool      `json:"is_active"`
	IsConfirm      bool      `json:"is_confirm"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates an active, unconfirmed Account with a fresh UUID.
// The caller is responsible for hashing the password before calling.
func NewAccount(username, email, hashedPassword string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:             uuid.New(),
		Username:       username,
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsConfirm:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks the invariants every persisted account must hold.
func (a *Account) Validate() error {
	switch {
	case a.ID == uuid.Nil:
		return fmt.Errorf("%w: account ID cannot be empty", ErrValidation)
	case a.Username == "":
		return fmt.Errorf("%w: username cannot be empty", ErrValidation)
	case a.Email == "":
		return fmt.Errorf("%w: email cannot be empty", ErrValidation)
	case a.HashedPassword == "":
		return fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
	}
	return nil
}

// CanLogin reports whether the account may be issued session tokens.
func (a *Account) CanLogin() bool {
	return a.IsActive && a.IsConfirm
}

// Confirm marks the account as confirmed. It reports false when the account
// was already confirmed and nothing changed.
func (a *Account) Confirm() bool {
	if a.IsConfirm {
		return false
	}
	a.IsConfirm = true
	a.Touch()
	return true
}

// Touch bumps UpdatedAt.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail lowercases the domain part of an address and trims
// surrounding whitespace. The local part is left untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
