package auth

import "errors"

var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("invalid login or password")

	// ErrSessionMismatch means the presented refresh token is well-formed and
	// unexpired but is not the one currently live for the subject.
	ErrSessionMismatch = errors.New("refresh token does not match the current session")

	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
)
