// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

// Package validation wraps a shared go-playground validator and translates
// its failures into the API error payload.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/admitra/admitra/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared instance. JSON tag names are used in error
// messages so clients can map failures back to request fields.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates v and returns an APIError describing the first layer of
// failures, or nil when valid.
func Struct(v interface{}) *models.APIError {
	if err := Validator().Struct(v); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) *models.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: err.Error(),
		}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return &models.APIError{
		Code:    models.ErrCodeValidation,
		Message: "request validation failed",
		Details: details,
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s) or characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s item(s) or characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
