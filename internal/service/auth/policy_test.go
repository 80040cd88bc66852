package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrengthPolicy(t *testing.T) {
	t.Parallel()

	p := NewStrengthPolicy(8)
	attrs := UserAttributes{Username: "johnsmith", Email: "jsmith@example.com"}

	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"strong", "Tr0ub4dor&3x", nil},
		{"short", "Zq9!x", []string{MsgPasswordTooShort(8)}},
		{"common", "password", []string{MsgPasswordCommon}},
		{"numeric and common", "12345678", []string{MsgPasswordCommon, MsgPasswordNumeric}},
		{"numeric", "90817263544", []string{MsgPasswordNumeric}},
		{"short numeric", "4096", []string{MsgPasswordTooShort(8), MsgPasswordNumeric}},
		{"similar to username", "johnsmith1", []string{MsgPasswordSimilarUsername}},
		{"similar to email", "jsmith@example", []string{MsgPasswordSimilarEmail}},
		{"too long", strings.Repeat("Ab1!", 19), []string{MsgPasswordTooLong}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Validate(tt.password, attrs))
		})
	}
}

func TestStrengthPolicyComparesNames(t *testing.T) {
	t.Parallel()

	p := NewStrengthPolicy(8)
	attrs := UserAttributes{
		Username:  "jsmith",
		FirstName: "Maximilian",
		LastName:  "Oberhauser",
		Email:     "jsmith@example.com",
	}

	assert.Equal(t, []string{MsgPasswordSimilarFirst}, p.Validate("maximilian7", attrs))
	assert.Equal(t, []string{MsgPasswordSimilarLast}, p.Validate("Oberhauser!", attrs))
	assert.Empty(t, p.Validate("Tr0ub4dor&3x", attrs))

	// Without names the same password only has to pass the other rules.
	assert.Empty(t, p.Validate("maximilian7", UserAttributes{Username: "jsmith"}))
}

func TestStrengthPolicyMinLength(t *testing.T) {
	t.Parallel()

	p := NewStrengthPolicy(12)
	assert.Equal(t, []string{MsgPasswordTooShort(12)}, p.Validate("Tr0ub4dor&3x"[:10], UserAttributes{}))
	assert.Equal(t, 8, NewStrengthPolicy(0).minLength)
}

func TestQuickRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, quickRatio("abc", "cba"), 0.0001)
	assert.InDelta(t, 0.0, quickRatio("abc", "xyz"), 0.0001)
	assert.InDelta(t, 0.5, quickRatio("ab", "ac"), 0.0001)
	assert.False(t, tooSimilar("averyveryverylongpassword", "a"))
}
