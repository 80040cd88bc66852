package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
)

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required"`
	Email           string `json:"email"            validate:"required"`
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// EmailRequest is used to request a password reset or an email change.
type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// SetPasswordRequest confirms a password reset.
type SetPasswordRequest struct {
	Password        string `json:"password"         validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// ChangePasswordRequest changes the password of the authenticated account.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"     validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

// ChangeFieldRequest carries the new value for a single profile field. Only
// the member matching the route is read.
type ChangeFieldRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
}

func (r ChangeFieldRequest) value(field service.Field) (string, bool) {
	var v *string
	switch field {
	case service.FieldFirstName:
		v = r.FirstName
	case service.FieldLastName:
		v = r.LastName
	case service.FieldUsername:
		v = r.Username
	case service.FieldPhoneNumber:
		v = r.PhoneNumber
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
	IsConfirm   bool      `json:"is_confirm"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		IsActive:    a.IsActive,
		IsConfirm:   a.IsConfirm,
		CreatedAt:   a.CreatedAt,
	}
}

// TokensResponse wraps the token pair as {"tokens": {"refresh", "access"}}.
type TokensResponse struct {
	Tokens TokenPair `json:"tokens"`
}

// TokenPair lists refresh before access.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// EmailResponse echoes the address a message was sent to.
type EmailResponse struct {
	Email string `json:"email"`
}
