package auth

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPasswordBytes is the longest password bcrypt will accept.
const MaxPasswordBytes = 72

// Password policy messages.
const (
	MsgPasswordSimilarUsername = "The password is too similar to the username."
	MsgPasswordSimilarFirst    = "The password is too similar to the first name."
	MsgPasswordSimilarLast     = "The password is too similar to the last name."
	MsgPasswordSimilarEmail    = "The password is too similar to the email address."
	MsgPasswordTooLong         = "This password is too long. It must contain at most 72 characters."
	MsgPasswordCommon          = "This password is too common."
	MsgPasswordNumeric         = "This password is entirely numeric."
)

// MsgPasswordTooShort formats the minimum length violation.
func MsgPasswordTooShort(min int) string {
	return fmt.Sprintf("This password is too short. It must contain at least %d characters.", min)
}

//go:embed common_passwords.txt
var commonPasswordsRaw string

// maxSimilarity is the quick-ratio threshold at which a password counts as
// too close to an account attribute.
const maxSimilarity = 0.7

var nonWord = regexp.MustCompile(`\W+`)

// UserAttributes are the account fields a password must not resemble.
type UserAttributes struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// PasswordPolicy checks a candidate password and returns every violated
// rule's message, in rule order. An empty result means the password passes.
type PasswordPolicy interface {
	Validate(password string, attrs UserAttributes) []string
}

// StrengthPolicy is the default PasswordPolicy.
type StrengthPolicy struct {
	minLength int
	common    map[string]struct{}
}

// NewStrengthPolicy builds a policy with the given minimum length and the
// embedded common password list.
func NewStrengthPolicy(minLength int) *StrengthPolicy {
	if minLength < 1 {
		minLength = 8
	}

	common := make(map[string]struct{})
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			common[strings.ToLower(w)] = struct{}{}
		}
	}

	return &StrengthPolicy{minLength: minLength, common: common}
}

var _ PasswordPolicy = (*StrengthPolicy)(nil)

// Validate implements PasswordPolicy.
func (p *StrengthPolicy) Validate(password string, attrs UserAttributes) []string {
	var msgs []string

	// Only the first resembling attribute is reported.
	for _, a := range []struct{ value, msg string }{
		{attrs.Username, MsgPasswordSimilarUsername},
		{attrs.FirstName, MsgPasswordSimilarFirst},
		{attrs.LastName, MsgPasswordSimilarLast},
		{attrs.Email, MsgPasswordSimilarEmail},
	} {
		if tooSimilar(password, a.value) {
			msgs = append(msgs, a.msg)
			break
		}
	}

	if utf8.RuneCountInString(password) < p.minLength {
		msgs = append(msgs, MsgPasswordTooShort(p.minLength))
	}

	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	}

	if _, ok := p.common[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, MsgPasswordCommon)
	}

	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		msgs = append(msgs, MsgPasswordNumeric)
	}

	return msgs
}

// tooSimilar compares the password to value and to each word of value.
func tooSimilar(password, value string) bool {
	if password == "" || value == "" {
		return false
	}
	password = strings.ToLower(password)
	value = strings.ToLower(value)

	parts := append(nonWord.Split(value, -1), value)
	for _, part := range parts {
		if part == "" || longerThanComparable(password, part) {
			continue
		}
		if quickRatio(password, part) >= maxSimilarity {
			return true
		}
	}
	return false
}

// longerThanComparable reports whether password is so much longer than value
// that no similarity ratio could reach the threshold.
func longerThanComparable(password, value string) bool {
	pwLen := utf8.RuneCountInString(password)
	valLen := utf8.RuneCountInString(value)
	return pwLen >= 10*valLen && float64(valLen) < maxSimilarity/2*float64(pwLen)
}

// quickRatio is 2*M/T, where M counts the characters the two strings share
// as multisets and T is their combined length.
func quickRatio(a, b string) float64 {
	counts := make(map[rune]int)
	for _, r := range b {
		counts[r]++
	}

	matches := 0
	for _, r := range a {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matches) / float64(total)
}
