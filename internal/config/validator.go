package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := newValidator()

	err := validate.Struct(cfg)
	if err != nil {
		return formatValidationError(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New()

	// Register custom validation for compact interval strings ("30m", "3h")
	_ = validate.RegisterValidation("interval", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true // Optional field, valid if empty
		}
		_, err := ParseInterval(raw)
		return err == nil
	})

	// Register custom validation for cron expressions
	_ = validate.RegisterValidation("cronexpr", func(fl validator.FieldLevel) bool {
		expr := fl.Field().String()
		if expr == "" {
			return true
		}
		_, err := cron.ParseStandard(expr)
		return err == nil
	})

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	return validate
}

func formatValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var messages []string
		for _, e := range errs {
			msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", e.StructNamespace(), e.Tag())
			if e.Param() != "" {
				msg += fmt.Sprintf(" (expected: %s)", e.Param())
			}
			if e.Value() != nil && e.Value() != "" {
				msg += fmt.Sprintf(", actual: '%v'", e.Value())
			}
			messages = append(messages, msg)
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return fmt.Errorf("configuration validation error: %w", err)
}
