package config

import (
	"fmt"
	"os"
	"reflect"
)

// LoadFromEnv fills the string fields of the struct pointed to by dst from
// the environment variables named by their `env` tags. Unset or empty
// variables leave the field untouched.
func LoadFromEnv(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env overrides: expected a pointer to a struct, got %T", dst)
	}
	v = v.Elem()

	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		if field.Type.Kind() != reflect.String {
			return fmt.Errorf("env overrides: field %s (%s) must be a string", field.Name, name)
		}
		if value := os.Getenv(name); value != "" {
			v.Field(i).SetString(value)
		}
	}
	return nil
}
