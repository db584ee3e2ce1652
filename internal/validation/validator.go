// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton with human-readable error messages for API responses.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes a single field validation failure.
type FieldError struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// RequestError is a collection of field validation failures.
type RequestError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// Validator returns the singleton validator. Struct info is cached, so
// sharing one instance is both safe and faster.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates s against its `validate` tags. Returns nil when
// valid, or a *RequestError listing every failing field.
func ValidateStruct(s interface{}) *RequestError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestError{Fields: []FieldError{
			{Field: "unknown", Tag: "unknown", Message: err.Error()},
		}}
	}

	fields := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
			Value:   fe.Value(),
		}
	}
	return &RequestError{Fields: fields}
}

var messageTemplates = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
}

var messageTemplatesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must have at least %s elements or characters",
	"max":   "%s must have at most %s elements or characters",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messageTemplatesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation on tag %q", fe.Field(), fe.Tag())
}
