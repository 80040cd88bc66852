package domain

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages shared by the account rules and the service layer.
const (
	MsgBlank           = "This field may not be blank."
	MsgInvalidEmail    = "Enter a valid email address."
	MsgInvalidPhone    = "Incorrect phone number. The number must consist of digits and the first digit cannot be zero."
	MsgPhoneTooShort   = "Ensure this field has at least 8 characters."
	MsgPhoneTooLong    = "Ensure this field has no more than 15 characters."
	MsgNameTooLong     = "Ensure this field has no more than 150 characters."
	MsgEmailTooLong    = "Ensure this field has no more than 254 characters."
	MsgNullCharacter   = "Null characters are not allowed."
	MsgInvalidUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var (
	phonePattern    = regexp.MustCompile(`^[1-9][0-9]*$`)
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// Rule is one validator tag paired with the message reported when the value
// fails it. A Halt rule stops evaluation of the remaining rules on failure.
type Rule struct {
	Tag     string
	Message string
	Halt    bool
}

// FieldRules is an ordered list of rules for a single field.
type FieldRules []Rule

// Rule sets for account fields.
var (
	UsernameRules = FieldRules{
		{Tag: "required", Message: MsgBlank, Halt: true},
		{Tag: "max=150", Message: MsgNameTooLong},
		{Tag: "username_chars", Message: MsgInvalidUsername},
	}

	EmailRules = FieldRules{
		{Tag: "required", Message: MsgBlank, Halt: true},
		{Tag: "no_null", Message: MsgNullCharacter, Halt: true},
		{Tag: "email", Message: MsgInvalidEmail},
		{Tag: "max=254", Message: MsgEmailTooLong},
	}

	NameRules = FieldRules{
		{Tag: "required", Message: MsgBlank, Halt: true},
		{Tag: "no_null", Message: MsgNullCharacter, Halt: true},
		{Tag: "max=150", Message: MsgNameTooLong},
	}

	// PhoneRules reports the pattern and length violations together.
	PhoneRules = FieldRules{
		{Tag: "required", Message: MsgBlank, Halt: true},
		{Tag: "phone_pattern", Message: MsgInvalidPhone},
		{Tag: "min=8", Message: MsgPhoneTooShort},
		{Tag: "max=15", Message: MsgPhoneTooLong},
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag name or nil func.
	_ = v.RegisterValidation("phone_pattern", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("no_null", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	return v
}

// Check runs every rule against value and returns the messages of the rules
// it violates, in order.
func (rs FieldRules) Check(value string) []string {
	var msgs []string
	for _, r := range rs {
		if err := validate.Var(value, r.Tag); err != nil {
			msgs = append(msgs, r.Message)
			if r.Halt {
				break
			}
		}
	}
	return msgs
}

// CheckInto runs the rules and records any violations on fe under field.
// It reports whether value passed every rule.
func (rs FieldRules) CheckInto(fe *FieldError, field, value string) bool {
	msgs := rs.Check(value)
	fe.Add(field, msgs...)
	return len(msgs) == 0
}
