package config

import (
	"github.com/dalfonso89/fortune-teller-service/internal/validation"
)

var configValidator = validation.MustNew()

// Validate checks a configuration against its struct rules
func Validate(configuration *Config) error {
	return configValidator.Struct(configuration)
}
