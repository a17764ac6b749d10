package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report field errors under the JSON name the client actually sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldErrors maps a request field to the validation messages for it,
// one entry per invalid or missing field.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e))
}

// Decode unmarshals and validates a JSON request body. Validation failures
// come back as FieldErrors so handlers can render the per-field 400 body.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fieldErrs := make(FieldErrors, len(verrs))
			for _, fe := range verrs {
				fieldErrs[fe.Field()] = append(fieldErrs[fe.Field()], fieldMessage(fe))
			}
			return fieldErrs
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return fmt.Sprintf("This field must be greater than %s", fe.Param())
	default:
		return "This field is invalid"
	}
}
