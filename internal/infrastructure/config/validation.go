package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks settings structs and reports fields by their config key
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the listen_address rule and names fields after
// their mapstructure tags
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("listen_address", func(fl validator.FieldLevel) bool {
		return validListenAddress(fl.Field().String())
	})
	return &Validator{validate: v}
}

// validListenAddress accepts host:port and unix:<path>
func validListenAddress(addr string) bool {
	if path, ok := strings.CutPrefix(addr, "unix:"); ok {
		return path != ""
	}
	_, port, err := net.SplitHostPort(addr)
	return err == nil && port != ""
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		key := e.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		messages = append(messages, fmt.Sprintf("%s: fails %s (got %v)", key, rule, e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
