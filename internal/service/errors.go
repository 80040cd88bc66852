// Package service implements the account lifecycle: registration,
// activation, login, password reset and self-service changes.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/accounts-api/internal/domain"
)

// Sentinel errors. Lifecycle operations return them as the Kind of a
// *domain.FieldError, so callers match with errors.Is and render the field
// messages with errors.As.
var (
	// ErrAlreadyExists indicates a uniqueness violation. It is a validation
	// failure as far as clients are concerned.
	ErrAlreadyExists = fmt.Errorf("%w: already exists", domain.ErrValidation)

	// ErrAccountNotFound indicates the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredential indicates a wrong username or password.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotConfirmed indicates the account has not been activated yet.
	ErrNotConfirmed = errors.New("account not confirmed")

	// ErrAlreadyConfirmed indicates activation was requested for a confirmed account.
	ErrAlreadyConfirmed = errors.New("account already confirmed")
)

// Field-level messages returned to clients.
const (
	MsgPasswordsMismatch    = "The passwords entered do not match."
	MsgUsernameTaken        = "A user with that username already exists."
	MsgEmailTaken           = "A user with that email already exists."
	MsgLinkInvalid          = "An activation link is invalid."
	MsgLinkExpired          = "An activation link has expired."
	MsgEmailNotFound        = "An email does not exist."
	MsgAlreadyConfirmed     = "An user is already confirmed."
	MsgInvalidCredential    = "Invalid credential."
	MsgNotConfirmed         = "An account is not confirmed."
	MsgUUIDInvalid          = "An uuid is not valid."
	MsgTokenInvalid         = "A token is not valid."
	MsgTokenExpired         = "A token has expired."
	MsgEmailExists          = "An email is already exist."
	MsgPhoneTaken           = "A current phone number already exists."
	MsgCurrentPasswordWrong = "Current password is not correct."
)
