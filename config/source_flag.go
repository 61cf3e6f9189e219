package config

import (
	"fmt"
	"reflect"
	"strings"
)

// FlagSource command line data source
// Fields map to configuration keys through the `config` tag; zero values and
// nil pointers are skipped, so a pointer field distinguishes "--value 0" from "not set".
//
//	type Flags struct {
//	    Value *float64 `flag:"value" config:"dao.value"`
//	}
type FlagSource struct {
	flags    interface{}
	priority int
}

// NewFlagSource creates a command line data source
func NewFlagSource(flags interface{}, priority int) *FlagSource {
	return &FlagSource{
		flags:    flags,
		priority: priority,
	}
}

// Name 数据源名称
func (s *FlagSource) Name() string {
	return "flags"
}

// Priority 优先级
func (s *FlagSource) Priority() int {
	return s.priority
}

// Load reads tagged fields
func (s *FlagSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if s.flags == nil {
		return result, nil
	}

	v := reflect.ValueOf(s.flags)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return result, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a struct or pointer to struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanInterface() || isZeroValue(field) {
			continue
		}

		tag := t.Field(i).Tag.Get("config")
		if tag == "" || tag == "-" {
			continue
		}

		value := field
		if value.Kind() == reflect.Ptr {
			value = value.Elem()
		}

		// `config:"a.b,c.d"` writes the same value to several keys
		for _, key := range strings.Split(tag, ",") {
			if key = strings.TrimSpace(key); key != "" {
				result[key] = value.Interface()
			}
		}
	}

	return result, nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
