package services

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/taskmanager-backend/internal/api/validate"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("unable to login")
	ErrUnauthenticated    = errors.New("please authenticate")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrNotFound           = errors.New("not found")
)

// invalid wraps field errors so callers can match both ErrValidation and
// validate.Errs.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func invalidField(field, msg string) error {
	return invalid(validate.Errs{{Field: field, Msg: msg}})
}
