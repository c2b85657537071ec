package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/questrider/auth-service/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name, not the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the struct tags and converts the first failure into a
// domain validation error.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(fe.Field())
	case "email":
		return domain.ErrInvalidField(fe.Field(), "invalid format")
	case "min":
		return domain.ErrInvalidField(fe.Field(), "min length "+fe.Param())
	case "max":
		return domain.ErrInvalidField(fe.Field(), "max length "+fe.Param())
	case "len":
		return domain.ErrInvalidField(fe.Field(), "must be exactly "+fe.Param()+" characters")
	case "numeric":
		return domain.ErrInvalidField(fe.Field(), "must be digits only")
	default:
		return domain.ErrInvalidField(fe.Field(), fe.Tag())
	}
}
