package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Purpose names what a token authorizes. It travels in the "type" claim and
// is checked on every verification, so a token minted for one purpose never
// satisfies another.
type Purpose string

// Token purposes.
const (
	PurposeAccess        Purpose = "access"
	PurposeRefresh       Purpose = "refresh"
	PurposeActivate      Purpose = "activate"
	PurposeResetPassword Purpose = "reset_password"
	PurposeConfirmEmail  Purpose = "confirm_email"
)

// JWTService defines operations for managing JWT tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the account.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and extracts its claims.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token. Refresh tokens
	// live longer and are exchanged for a new token pair.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token and extracts its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// IssueActionToken creates a single-purpose token for an emailed link.
	// state is folded into a keyed fingerprint; verification fails once the
	// account state it was bound to changes.
	IssueActionToken(ctx context.Context, userID uuid.UUID, purpose Purpose, state string) (string, error)

	// VerifyActionToken checks signature, purpose, expiry and state binding.
	VerifyActionToken(ctx context.Context, tokenString string, purpose Purpose, state string) (*Claims, error)
}

// Claims represents the verified content of a token.
type Claims struct {
	// UserID is the unique identifier of the account the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is the token purpose.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
