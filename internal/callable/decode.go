package callable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report payload field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// notblank rejects strings that are empty after trimming whitespace.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Decode unmarshals the request payload into dst and validates it. Every
// failure is an invalid-argument error so no business logic runs on bad input.
func Decode(req Request, dst any) error {
	data := bytes.TrimSpace(req.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return NewError(CodeInvalidArgument, "missing request data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return WrapError(CodeInvalidArgument, "malformed request data", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return WrapError(CodeInvalidArgument, describe(verrs[0]), err)
		}
		return WrapError(CodeInvalidArgument, "invalid request data", err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	// Drop the top-level Go type name from "UpdateVideoRequest.video.id".
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
