package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/geokit/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checks gathers failed checks so they can be reported together.
type Checks struct {
	failed []FieldError
}

// Check starts a set of checks with s's struct tags.
func Check(s any) *Checks {
	c := &Checks{}
	err := tagValidator().Struct(s)
	if err == nil {
		return c
	}
	tagErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Custom(false, "", err.Error())
	}
	for _, e := range tagErrs {
		c.Custom(false, e.Field(), tagMessage(e))
	}
	return c
}

// Validate checks s's struct tags, for example `validate:"omitempty,url"`.
func Validate(s any) error {
	return Check(s).Err()
}

// Custom records message against field unless ok holds.
func (c *Checks) Custom(ok bool, field, message string) *Checks {
	if !ok {
		c.failed = append(c.failed, FieldError{Field: field, Message: message})
	}
	return c
}

// Latitude checks a latitude in degrees.
func (c *Checks) Latitude(field string, lat float64) *Checks {
	return c.Custom(lat >= -90 && lat <= 90, field, "must be between -90 and 90")
}

// Longitude checks a longitude in degrees.
func (c *Checks) Longitude(field string, lng float64) *Checks {
	return c.Custom(lng >= -180 && lng <= 180, field, "must be between -180 and 180")
}

// Failed returns the failed checks in the order they ran.
func (c *Checks) Failed() []FieldError {
	return c.failed
}

// Err folds the failed checks into one INVALID_INPUT error, or returns nil.
func (c *Checks) Err() error {
	if len(c.failed) == 0 {
		return nil
	}
	parts := make([]string, len(c.failed))
	for i, f := range c.failed {
		parts[i] = f.Message
		if f.Field != "" {
			parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
		}
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", c.failed)
}
