package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var tagValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("langtag", func(fl validator.FieldLevel) bool {
		return IsLanguageTag(fl.Field().String())
	})
	return v
})

// fieldName names a field in messages the way it is spelled in config
// files: the mapstructure key, else the json key, else snake case.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			break
		}
		if name != "" {
			return name
		}
	}
	return toSnakeCase(f.Name)
}

// IsLanguageTag reports whether s parses as a BCP 47 language tag.
func IsLanguageTag(s string) bool {
	if s == "" {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

var tagMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"len":      "must have length %s",
	"url":      "must be a valid URL",
	"oneof":    "must be one of: %s",
	"langtag":  "must be a language tag such as en or pt-BR",
}

func tagMessage(e validator.FieldError) string {
	msg, ok := tagMessages[e.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		return strings.Replace(msg, "%s", e.Param(), 1)
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
