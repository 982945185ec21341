package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
)

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// RegisterValidators adds the custom binding tags used by request DTOs and
// reports validation failures under their JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("notblank", validators.NotBlank)
}

// bindJSON binds the request body into req and answers 400 on failure.
// fieldMessages maps a JSON field to the message used when that field fails validation.
func bindJSON(c *gin.Context, req any, fieldMessages map[string]string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		message, ok := fieldMessages[verrs[0].Field()]
		if !ok {
			message = "Invalid request body"
		}
		apierrors.BadRequestWithDetails(c, message, details)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		apierrors.BadRequestWithDetails(c, "Invalid value for "+typeErr.Field,
			[]FieldError{{Field: typeErr.Field, Rule: "type"}})
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
	return false
}
