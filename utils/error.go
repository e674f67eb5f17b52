package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")
var ErrorValidation = errors.New("validation failed")
var ErrorConflict = errors.New("duplicate record")

// NotFoundErrorf wraps ErrorRecordNotFound with a resource-specific message.
func NotFoundErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrorRecordNotFound}, args...)...)
}

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrorValidation}, args...)...)
}

func ConflictErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrorConflict}, args...)...)
}
