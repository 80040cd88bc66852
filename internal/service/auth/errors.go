package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, badly signed or
	// otherwise unusable.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates a valid token presented for another purpose.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrStaleToken indicates the account state the token was bound to has
	// changed since it was issued.
	ErrStaleToken = fmt.Errorf("%w: token no longer matches account state", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = fmt.Errorf("%w: not yet valid", ErrInvalidToken)

	// ErrPasswordMismatch indicates a password does not match its stored hash.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrUnknownHashFormat indicates a stored hash no configured hasher understands.
	ErrUnknownHashFormat = errors.New("unknown password hash format")
)
