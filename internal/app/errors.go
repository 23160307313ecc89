package app

import (
	"errors"

	"studyboard/internal/access"
)

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an internal failure.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrAuthRequired      = newError(ErrUnauthenticated, "authorization required")
	ErrInvalidToken      = newError(ErrUnauthenticated, "invalid or expired token")
	ErrInvalidCredential = newError(ErrUnauthenticated, "invalid username or password")
	ErrAccountInactive   = newError(ErrUnauthenticated, "account is deactivated")
	ErrWrongPassword     = newError(ErrUnauthenticated, "current password is incorrect")

	ErrUsernameExists = newError(ErrConflict, "username already exists")
	ErrEmailExists    = newError(ErrConflict, "email already exists")
	ErrAccountExists  = newError(ErrConflict, "username or email already exists")
	ErrCourseExists   = newError(ErrConflict, "course already exists")
	ErrAlreadyMember  = newError(ErrConflict, "user is already a member of this group")
	ErrNotMember      = newError(ErrInvalidInput, "user is not a member of this group")

	ErrUserNotFound   = newError(ErrNotFound, "user not found")
	ErrPostNotFound   = newError(ErrNotFound, "post not found")
	ErrGroupNotFound  = newError(ErrNotFound, "group not found")
	ErrCourseNotFound = newError(ErrNotFound, "course not found")
)

type kindedError struct {
	kind error
	msg  string
}

func (e *kindedError) Error() string { return e.msg }

func (e *kindedError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindedError{kind: kind, msg: msg}
}

func invalidInput(err error) error {
	return newError(ErrInvalidInput, err.Error())
}

func decisionError(d access.Decision) error {
	switch d.Outcome {
	case access.Permit:
		return nil
	case access.Unauthenticated:
		return ErrAuthRequired
	case access.Conflict:
		return newError(ErrConflict, d.Reason)
	default:
		return newError(ErrForbidden, d.Reason)
	}
}
