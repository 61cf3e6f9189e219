// Package flagx binds cobra flags to tagged structs
//
//	type Flags struct {
//	    ConfigDir string   `flag:"config-dir,c" usage:"config directory" default:"configs/calcul"`
//	    Value     *float64 `flag:"value" usage:"override the data source value"`
//	}
//
// Tags: flag (name[,short], mandatory), usage, default, required.
// Pointer fields stay nil unless the flag was given on the command line.
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// BindFlags registers one flag per tagged field
func BindFlags(cmd *cobra.Command, target interface{}) error {
	t, err := structType(target)
	if err != nil {
		return err
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, short, ok := parseFlagTag(field)
		if !ok {
			continue
		}

		if err := registerFlag(cmd, field, name, short, field.Tag.Get("usage"), field.Tag.Get("default")); err != nil {
			return fmt.Errorf("bind field %s: %w", field.Name, err)
		}

		if field.Tag.Get("required") == "true" {
			if err := cmd.MarkFlagRequired(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// ParseFlags copies parsed flag values into target
func ParseFlags(cmd *cobra.Command, target interface{}) error {
	if _, err := structType(target); err != nil {
		return err
	}

	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		name, _, ok := parseFlagTag(t.Field(i))
		if !ok {
			continue
		}

		if err := setFieldValue(cmd, field, name); err != nil {
			return fmt.Errorf("parse field %s: %w", t.Field(i).Name, err)
		}
	}

	return nil
}

func structType(target interface{}) (reflect.Type, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("target must be a pointer to struct")
	}
	return v.Elem().Type(), nil
}

func parseFlagTag(field reflect.StructField) (name, short string, ok bool) {
	tag := field.Tag.Get("flag")
	if tag == "" {
		return "", "", false
	}
	name, short, _ = strings.Cut(tag, ",")
	return name, short, name != ""
}

// registerFlag registers a flag by field kind; pointers register their element kind
func registerFlag(cmd *cobra.Command, field reflect.StructField, name, short, usage, defaultVal string) error {
	kind := field.Type.Kind()
	if kind == reflect.Ptr {
		kind = field.Type.Elem().Kind()
	}

	flags := cmd.Flags()
	switch kind {
	case reflect.String:
		flags.StringP(name, short, defaultVal, usage)

	case reflect.Int:
		def := 0
		if defaultVal != "" {
			parsed, err := strconv.Atoi(defaultVal)
			if err != nil {
				return fmt.Errorf("invalid default %q: %w", defaultVal, err)
			}
			def = parsed
		}
		flags.IntP(name, short, def, usage)

	case reflect.Float64:
		def := 0.0
		if defaultVal != "" {
			parsed, err := strconv.ParseFloat(defaultVal, 64)
			if err != nil {
				return fmt.Errorf("invalid default %q: %w", defaultVal, err)
			}
			def = parsed
		}
		flags.Float64P(name, short, def, usage)

	case reflect.Bool:
		def := false
		if defaultVal != "" {
			parsed, err := strconv.ParseBool(defaultVal)
			if err != nil {
				return fmt.Errorf("invalid default %q: %w", defaultVal, err)
			}
			def = parsed
		}
		flags.BoolP(name, short, def, usage)

	case reflect.Slice:
		if field.Type.Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type.Elem().Kind())
		}
		flags.StringSliceP(name, short, nil, usage)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type.Kind())
	}

	return nil
}

// setFieldValue reads the flag into field
func setFieldValue(cmd *cobra.Command, field reflect.Value, name string) error {
	flags := cmd.Flags()
	if flags.Lookup(name) == nil {
		return fmt.Errorf("flag --%s is not defined", name)
	}

	if field.Kind() == reflect.Ptr {
		if !flags.Changed(name) {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		elem := reflect.New(field.Type().Elem())
		if err := setFieldValue(cmd, elem.Elem(), name); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		val, err := flags.GetString(name)
		if err != nil {
			return err
		}
		field.SetString(val)

	case reflect.Int:
		val, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		field.SetInt(int64(val))

	case reflect.Float64:
		val, err := flags.GetFloat64(name)
		if err != nil {
			return err
		}
		field.SetFloat(val)

	case reflect.Bool:
		val, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		field.SetBool(val)

	case reflect.Slice:
		val, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(val))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
