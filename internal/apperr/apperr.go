package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap with context, match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrGateway    = errors.New("gateway error")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
)

func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func Gateway(msg string) error {
	return fmt.Errorf("%w: %s", ErrGateway, msg)
}

func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func Permission(msg string) error {
	return fmt.Errorf("%w: %s", ErrPermission, msg)
}
