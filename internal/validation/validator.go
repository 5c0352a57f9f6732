// Coursetrace - Learning Platform Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursetrace

// Package validation provides struct validation using go-playground/validator v10.
//
// It exposes a thread-safe singleton validator instance so struct metadata
// is cached across calls. Configuration structs tag their fields with
// `validate:"..."` rules and call ValidateStruct during load:
//
//	type EngagementConfig struct {
//	    Heuristic    string  `validate:"oneof=fixed elapsed"`
//	    VideoMinutes float64 `validate:"min=0"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil { ... }
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the shared validator, creating it on first use.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field %s failed rule %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("field %s failed rule %s", e.Field, e.Tag)
}

// Errors is the collection of all field failures from one call.
type Errors []*FieldError

// Error implements the error interface, joining all field failures.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct validates a struct against its `validate` tags. It
// returns nil when the struct passes, or an Errors value listing every
// failed field.
func ValidateStruct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: caller passed a non-struct.
		return fmt.Errorf("validation: %w", err)
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{
			Field: fe.Namespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
