// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.  The invocation
// contract depends on this: a missing credential must be reported before a
// single byte of partner or store traffic.
//
// Besides the built-in `required` rule we register one custom rule,
// `dsn_verb`: the store DSN template must contain exactly one `%s` verb for
// the password substitution in Store.ResolvedDSN.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// Registration only fails for empty tags or nil funcs; neither applies.
	_ = val.RegisterValidation("dsn_verb", func(fl validator.FieldLevel) bool {
		return strings.Count(fl.Field().String(), "%s") == 1
	})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
