// Package status defines the error taxonomy shared by the services.
// Every error carries a stable kind plus a human-readable message; the
// transport layer maps the kind to a status code and forwards the
// message unmodified.
package status

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound         = Kind("not_found")
	KindValidation       = Kind("validation")
	KindUnauthorized     = Kind("unauthorized")
	KindForbidden        = Kind("forbidden")
	KindConflict         = Kind("conflict")
	KindPartialReference = Kind("partial_reference")
	KindInternal         = Kind("internal")
)

const (
	ReasonCategoryInUse = "CategoryInUse"
)

type Error struct {
	Kind    Kind   `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s was not found", entity)}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(reason, message string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: message}
}

func Conflict(reason, message string) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: message}
}

// PartialReference marks a symmetric reference update whose second half
// did not complete after retries. It must be surfaced, never swallowed.
func PartialReference(message string, cause error) *Error {
	return &Error{Kind: KindPartialReference, Message: message, cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf reports the kind of err, or KindInternal when err does not
// come out of this taxonomy.
func KindOf(err error) Kind {
	var cast *Error
	if errors.As(err, &cast) {
		return cast.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
