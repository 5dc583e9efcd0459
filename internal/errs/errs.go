// Package errs maps the tool's two hard failure kinds onto go-errors
// categories so callers can branch with goerrors.IsCategory.
package errs

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeTodolistNotFound = "TODOLIST_NOT_FOUND"
	CodeInvalidLine      = "INVALID_LINE_NUMBER"
	CodeInvalidLimit     = "INVALID_LIMIT"
	CodeInvalidMonth     = "INVALID_MONTH"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
)

// NotFound wraps err as a not-found failure.
func NotFound(err error, code, message string) error {
	if err == nil {
		err = errors.New(message)
	}
	return goerrors.Wrap(err, goerrors.CategoryNotFound, message).WithTextCode(code)
}

// Invalid builds an invalid-argument failure.
func Invalid(code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return goerrors.Wrap(errors.New(msg), goerrors.CategoryValidation, msg).WithTextCode(code)
}

// InvalidWrap wraps an existing validation error, keeping it as the source.
func InvalidWrap(err error, code, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func IsNotFound(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func IsInvalid(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryValidation)
}
