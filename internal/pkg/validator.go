package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// SetupValidator makes gin's validator report JSON field names.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// BindError turns a gin binding failure into an AppError.
func BindError(err error) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return MissingField(fe.Field())
		case "min", "gte":
			return Errorf(ErrInvalidInput, "%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte":
			return Errorf(ErrInvalidInput, "%s must be at most %s", fe.Field(), fe.Param())
		case "email":
			return Errorf(ErrInvalidInput, "%s must be a valid email address", fe.Field())
		default:
			return Errorf(ErrInvalidInput, "invalid value for %s", fe.Field())
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Errorf(ErrInvalidInput, "invalid value for %s", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return NewError(ErrInvalidInput, "empty body")
	}
	return NewError(ErrInvalidInput, fmt.Sprintf("invalid params: %v", err))
}
