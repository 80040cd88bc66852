package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PendingEmailChange is an email address an account has asked to switch to
// but has not yet confirmed. There is at most one per account.
type PendingEmailChange struct {
	AccountID uuid.UUID
	NewEmail  string
	CreatedAt time.Time
}

// NewPendingEmailChange stages newEmail for accountID.
func NewPendingEmailChange(accountID uuid.UUID, newEmail string) (*PendingEmailChange, error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("%w: account ID cannot be empty", ErrValidation)
	}
	if newEmail == "" {
		return nil, fmt.Errorf("%w: new email cannot be empty", ErrValidation)
	}

	return &PendingEmailChange{
		AccountID: accountID,
		NewEmail:  NormalizeEmail(newEmail),
		CreatedAt: time.Now().UTC(),
	}, nil
}
