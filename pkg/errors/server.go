// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Unexpected represents an unexpected error in the application.
type Unexpected struct {
	base
}

// Error returns the error message for Unexpected.
func (u Unexpected) Error() string {
	return u.error()
}

// Unwrap returns the wrapped cause, if any.
func (u Unexpected) Unwrap() error {
	return u.err
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ServiceUnavailable represents a service unavailability error in the application.
type ServiceUnavailable struct {
	base
}

// Error returns the error message for ServiceUnavailable.
func (su ServiceUnavailable) Error() string {
	return su.error()
}

// Unwrap returns the wrapped cause, if any.
func (su ServiceUnavailable) Unwrap() error {
	return su.err
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// SearchFailed is returned when the search collaborator rejected a fetch.
// It is recoverable: the result set and pagination state are left as they
// were, so the caller can show an alert and let the user retry.
type SearchFailed struct {
	base
}

// Error returns the error message for SearchFailed.
func (sf SearchFailed) Error() string {
	return sf.error()
}

// Unwrap returns the wrapped cause, if any.
func (sf SearchFailed) Unwrap() error {
	return sf.err
}

// Reason returns the human readable reason, without the wrapped cause.
func (sf SearchFailed) Reason() string {
	return sf.message
}

// NewSearchFailed creates a new SearchFailed error with the provided reason.
func NewSearchFailed(reason string, err ...error) SearchFailed {
	return SearchFailed{
		base: base{
			message: reason,
			err:     errors.Join(err...),
		},
	}
}
