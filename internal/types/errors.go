package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error.
type ErrorKind string

const (
	ErrorKindValidation            ErrorKind = "VALIDATION"
	ErrorKindEnumeration           ErrorKind = "ENUMERATION"
	ErrorKindInterfaceNotFound     ErrorKind = "INTERFACE_NOT_FOUND"
	ErrorKindApply                 ErrorKind = "APPLY"
	ErrorKindInsufficientPrivilege ErrorKind = "INSUFFICIENT_PRIVILEGE"
	ErrorKindVerificationMismatch  ErrorKind = "VERIFICATION_MISMATCH"
	ErrorKindRollbackFailure       ErrorKind = "ROLLBACK_FAILURE"
	ErrorKindDuplicateName         ErrorKind = "DUPLICATE_NAME"
	ErrorKindNotFound              ErrorKind = "NOT_FOUND"
	ErrorKindOperationInProgress   ErrorKind = "OPERATION_IN_PROGRESS"
	ErrorKindUnsupportedPlatform   ErrorKind = "UNSUPPORTED_PLATFORM"
)

// Error is the typed error returned across component boundaries.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewValidationError reports a bad profile or interface selection.
func NewValidationError(message string, cause error) *Error {
	return newError(ErrorKindValidation, message, cause)
}

// NewEnumerationError reports that the OS interface query failed.
func NewEnumerationError(message string, cause error) *Error {
	return newError(ErrorKindEnumeration, message, cause)
}

// NewInterfaceNotFoundError reports a name that no longer resolves to a live interface.
func NewInterfaceNotFoundError(name string, cause error) *Error {
	return newError(ErrorKindInterfaceNotFound, fmt.Sprintf("interface %q not found", name), cause)
}

// NewApplyError reports a failed OS mutation.
func NewApplyError(message string, cause error) *Error {
	return newError(ErrorKindApply, message, cause)
}

// NewInsufficientPrivilegeError reports a mutation refused for lack of privilege.
func NewInsufficientPrivilegeError(message string, cause error) *Error {
	return newError(ErrorKindInsufficientPrivilege, message, cause)
}

// NewVerificationMismatchError reports that an applied configuration did not take effect.
func NewVerificationMismatchError(iface string, fields []string) *Error {
	return newError(ErrorKindVerificationMismatch, fmt.Sprintf("interface %q does not match the target configuration (fields: %v)", iface, fields), nil)
}

// NewRollbackFailureError reports that restoring the pre-apply state failed.
func NewRollbackFailureError(iface string, cause error) *Error {
	return newError(ErrorKindRollbackFailure, fmt.Sprintf("rollback of interface %q failed, manual intervention required", iface), cause)
}

// NewDuplicateNameError reports a profile name clash.
func NewDuplicateNameError(name string) *Error {
	return newError(ErrorKindDuplicateName, fmt.Sprintf("a profile named %q already exists", name), nil)
}

// NewNotFoundError reports an unknown profile.
func NewNotFoundError(message string) *Error {
	return newError(ErrorKindNotFound, message, nil)
}

// NewOperationInProgressError reports a concurrent apply on the same interface.
func NewOperationInProgressError(iface string) *Error {
	return newError(ErrorKindOperationInProgress, fmt.Sprintf("an apply operation is already in progress on interface %q", iface), nil)
}

// NewUnsupportedPlatformError reports that no backend exists for the host OS.
func NewUnsupportedPlatformError(goos string) *Error {
	return newError(ErrorKindUnsupportedPlatform, fmt.Sprintf("network configuration is not supported on %s", goos), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func hasKind(err error, kinds ...ErrorKind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		for _, k := range kinds {
			if e.Kind == k {
				return true
			}
		}
		return hasKind(e.Cause, kinds...)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if hasKind(inner, kinds...) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return hasKind(e.Unwrap(), kinds...)
	}
	return false
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return hasKind(err, ErrorKindValidation) }

// IsEnumerationError reports whether err is an enumeration error.
func IsEnumerationError(err error) bool { return hasKind(err, ErrorKindEnumeration) }

// IsInterfaceNotFoundError reports whether err is an interface lookup failure.
func IsInterfaceNotFoundError(err error) bool { return hasKind(err, ErrorKindInterfaceNotFound) }

// IsApplyError reports whether err is an apply error, including its
// insufficient privilege subtype.
func IsApplyError(err error) bool {
	return hasKind(err, ErrorKindApply, ErrorKindInsufficientPrivilege)
}

// IsInsufficientPrivilegeError reports whether err is a privilege failure.
func IsInsufficientPrivilegeError(err error) bool {
	return hasKind(err, ErrorKindInsufficientPrivilege)
}

// IsVerificationMismatchError reports whether err is a verification mismatch.
func IsVerificationMismatchError(err error) bool {
	return hasKind(err, ErrorKindVerificationMismatch)
}

// IsRollbackFailureError reports whether err is a rollback failure.
func IsRollbackFailureError(err error) bool { return hasKind(err, ErrorKindRollbackFailure) }

// IsDuplicateNameError reports whether err is a profile name clash.
func IsDuplicateNameError(err error) bool { return hasKind(err, ErrorKindDuplicateName) }

// IsNotFoundError reports whether err is an unknown profile.
func IsNotFoundError(err error) bool { return hasKind(err, ErrorKindNotFound) }

// IsOperationInProgressError reports whether err is an in-flight rejection.
func IsOperationInProgressError(err error) bool {
	return hasKind(err, ErrorKindOperationInProgress)
}

// IsUnsupportedPlatformError reports whether err is an unsupported platform error.
func IsUnsupportedPlatformError(err error) bool {
	return hasKind(err, ErrorKindUnsupportedPlatform)
}
