// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Validation represents a validation error in the application.
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// Unwrap returns the wrapped cause, if any.
func (v Validation) Unwrap() error {
	return v.err
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// NotFound represents a missing record or resource.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// Unwrap returns the wrapped cause, if any.
func (n NotFound) Unwrap() error {
	return n.err
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// InvalidFetchParameters is returned synchronously when a caller supplies
// contradictory or malformed search parameters. It marks a programming
// error: the call must not be retried with the same input.
type InvalidFetchParameters struct {
	base
}

// Error returns the error message for InvalidFetchParameters.
func (i InvalidFetchParameters) Error() string {
	return i.error()
}

// Unwrap returns the wrapped cause, if any.
func (i InvalidFetchParameters) Unwrap() error {
	return i.err
}

// NewInvalidFetchParameters creates a new InvalidFetchParameters error.
func NewInvalidFetchParameters(message string, err ...error) InvalidFetchParameters {
	return InvalidFetchParameters{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
