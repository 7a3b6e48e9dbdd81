// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// UserCancelledAction signals that an asynchronous operation was superseded
// by a newer one before it could commit. It is an expected outcome: callers
// swallow it and never log it as a failure or show it to the user.
type UserCancelledAction struct {
	base
}

// Error returns the error message for UserCancelledAction.
func (u UserCancelledAction) Error() string {
	return u.error()
}

// NewUserCancelledAction creates a new UserCancelledAction with the provided message.
func NewUserCancelledAction(message string) UserCancelledAction {
	return UserCancelledAction{
		base: base{
			message: message,
		},
	}
}

// IsUserCancelled reports whether err is, or wraps, a UserCancelledAction.
func IsUserCancelled(err error) bool {
	var cancelled UserCancelledAction
	return errors.As(err, &cancelled)
}

// IgnoreCancelled returns nil for a UserCancelledAction and err unchanged
// for anything else.
func IgnoreCancelled(err error) error {
	if IsUserCancelled(err) {
		return nil
	}
	return err
}
