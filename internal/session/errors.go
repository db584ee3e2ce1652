// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package session

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a transition's input fails
// validation. The prior state is always left unchanged.
var ErrInvalidTransition = errors.New("invalid state transition")

// ObserverError wraps a failure inside an observer callback, carrying the
// offending observer's name. It is reported, never propagated to the
// transition caller.
type ObserverError struct {
	Observer string
	Err      error
}

// Error implements error.
func (e *ObserverError) Error() string {
	return fmt.Sprintf("observer %s: %v", e.Observer, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ObserverError) Unwrap() error { return e.Err }
