package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrAlreadyVerified    = errors.New("already verified")
	ErrNoActiveCode       = errors.New("no active code")
	ErrCodeExpired        = errors.New("code expired")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrCodeFormat         = errors.New("invalid code format")
	ErrCodeMismatch       = errors.New("invalid code value")
	ErrUnauthorized       = errors.New("unauthorized")
)

// CodeValidationError — неверная отправка кода (формат или значение).
// Reason — один из ErrCodeFormat/ErrCodeMismatch, Remaining — сколько
// попыток осталось после этой.
type CodeValidationError struct {
	Reason    error
	Detail    string // "wrong length" / "non-numeric" / "wrong value"
	Remaining int
}

func (e *CodeValidationError) Error() string {
	return fmt.Sprintf("%s: %s (remaining attempts: %d)", e.Reason, e.Detail, e.Remaining)
}

func (e *CodeValidationError) Unwrap() error { return e.Reason }
