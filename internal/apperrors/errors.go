// Package apperrors declares the error kinds shared by services and handlers.
// Services wrap these sentinels; the HTTP layer maps them to status codes.
package apperrors

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("user is not authorized")
	ErrForbidden         = errors.New("operation is forbidden for user")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
