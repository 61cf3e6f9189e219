// Package validator 统一的配置校验和错误转换
package validator

import (
	"errors"

	"github.com/KOMKZ/go-yogan-calcul/config"
	"github.com/KOMKZ/go-yogan-calcul/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidConfig a configuration section failed validation
var ErrInvalidConfig = errcode.Register(errcode.New(
	config.ModuleCode, 2,
	"config",
	"error.config.invalid",
	"配置校验失败",
	config.ExitInvalidConfig,
))

// Validatable 可校验接口
type Validatable interface {
	Validate() error
}

// ValidateSection validates one configuration section.
// ozzo-validation errors become ErrInvalidConfig with a per-field map,
// other errors are wrapped in ErrInvalidConfig as they are.
func ValidateSection(section string, v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return ConvertValidationError(section, validationErrs)
	}

	return ErrInvalidConfig.Wrapf(err, "配置 %s 校验失败", section).WithData("section", section)
}

// ValidateAll validates several sections and returns the first failure
func ValidateAll(sections map[string]Validatable, order ...string) error {
	for _, name := range order {
		v, ok := sections[name]
		if !ok {
			continue
		}
		if err := ValidateSection(name, v); err != nil {
			return err
		}
	}
	return nil
}

// ConvertValidationError converts ozzo-validation errors into ErrInvalidConfig
func ConvertValidationError(section string, validationErrs validation.Errors) error {
	fields := make(map[string]string, len(validationErrs))
	for field, fieldErr := range validationErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return ErrInvalidConfig.
		Wrapf(validationErrs, "配置 %s 校验失败", section).
		WithFields(map[string]interface{}{
			"section": section,
			"fields":  fields,
		})
}
