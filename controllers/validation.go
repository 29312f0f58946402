package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
			panic(err)
		}
	})
}

// strongPassword requires an upper case letter, a lower case letter and a digit.
// bcrypt rejects input over 72 bytes, so longer passwords fail here.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < minPasswordLength || len(s) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindJSON decodes the body into obj and writes a 400 listing the invalid
// fields when that fails.
func bindJSON(ctx *gin.Context, obj any) bool {
	err := ctx.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return false
	}

	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
		"success": false,
		"message": msgInvalidInput,
		"errors":  fields,
	})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please provide a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "strongpassword":
		return fmt.Sprintf("%s must be %d to %d characters and mix upper case, lower case and digits", fe.Field(), minPasswordLength, maxPasswordBytes)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
