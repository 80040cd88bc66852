package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when the body is not a single JSON object.
var ErrInvalidBody = errors.New("invalid request body")

// Global validator instance for reuse. Field errors are reported under the
// json name of the field.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}
	return nil
}

// ValidateRequest checks the struct tags of v. Failures come back as a
// domain.FieldError keyed by json field name.
func ValidateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := domain.NewFieldError(domain.ErrValidation)
	for _, ve := range verrs {
		fe.Add(ve.Field(), tagMessage(ve))
	}
	return fe
}

func tagMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return domain.MsgBlank
	case "email":
		return domain.MsgInvalidEmail
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", ve.Param())
	default:
		return "This field is invalid."
	}
}
