package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/program-ledger/console/internal/httputil"
)

var errNotFound = errors.New("there is no page at this address")

// bindForm binds the submitted form to a T, normalizes it and validates the
// result. On error the returned T still holds everything that was submitted.
func bindForm[T any](c *gin.Context, normalize func(T) T) (T, error) {
	var v T

	err := c.ShouldBindWith(&v, binding.Form)
	var verrs validator.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return v, httputil.Error{Err: err, Status: http.StatusBadRequest}
	}

	if normalize != nil {
		v = normalize(v)
	}

	if err := binding.Validator.ValidateStruct(v); err != nil {
		return v, httputil.Error{Err: errors.New(validationMessage(err)), Status: http.StatusUnprocessableEntity}
	}

	return v, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, validationErrorToText(e))
	}
	return strings.Join(messages, "; ")
}

func validationErrorToText(e validator.FieldError) string {
	field := label(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be longer than %s", field, e.Param())
	}
	return fmt.Sprintf("%s is not valid", field)
}

// label turns a struct field name into words, e.g. "ProgramName" into
// "Program Name".
func label(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
