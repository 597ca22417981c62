package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validate checks the structure that every command depends on:
// default_instance must name a defined instance. Backend URLs are checked
// lazily by InstanceConfig.Service and in bulk by ValidateServices.
func (c *Config) Validate() error {
	if c.DefaultInstance != "" {
		if _, ok := c.Instances[c.DefaultInstance]; !ok {
			return &MultiValidationError{Errors: []ValidationError{{
				Field:   "default_instance",
				Message: fmt.Sprintf("instance %q is not defined", c.DefaultInstance),
			}}}
		}
	}
	return nil
}

// ValidateServices checks the URL of every configured backend in every
// instance and reports all problems together.
func (c *Config) ValidateServices() error {
	var errors []ValidationError

	for _, name := range c.order {
		inst := c.Instances[name]
		for _, kind := range BackendKinds {
			svc, ok := inst.Services[kind]
			if !ok || svc == nil {
				continue
			}
			if err := ValidateServiceURL(svc.URL); err != nil {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("instances.%s.%s.url", name, kind.SectionKey()),
					Message: err.Error(),
				})
			}
		}
	}

	if len(errors) > 0 {
		return &MultiValidationError{Errors: errors}
	}
	return nil
}
