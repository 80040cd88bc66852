package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidUID indicates a link uid that does not decode to an account id.
var ErrInvalidUID = errors.New("invalid uid")

// EncodeUID renders an account id for use in emailed links.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID. Trailing padding is tolerated.
func DecodeUID(uid string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return uuid.Nil, ErrInvalidUID
	}
	id, err := uuid.Parse(string(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidUID
	}
	return id, nil
}
