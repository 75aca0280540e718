// Package validation registers the custom binding validators used by the
// request DTOs.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ValidUsername rejects the reserved name "me" (it collides with the
// /users/me route) and anything outside the allowed charset.
func ValidUsername(value string) bool {
	if strings.EqualFold(value, "me") {
		return false
	}
	return usernameRe.MatchString(value)
}

// ValidSlug accepts letters, digits, hyphens and underscores.
func ValidSlug(value string) bool {
	return slugRe.MatchString(value)
}

// ValidYear rejects release years in the future.
func ValidYear(year int) bool {
	return year <= time.Now().Year()
}

// Register installs the custom tags on gin's binding validator. Call once
// at startup before serving requests.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidSlug(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("pastyear", func(fl validator.FieldLevel) bool {
		return ValidYear(int(fl.Field().Int()))
	})
}
