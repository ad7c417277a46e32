package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrNotInitialized is returned by every resolver operation when no
// registry was supplied at construction time.
var ErrNotInitialized = &AppError{
	Code:            CodeNotInitialized,
	Message:         "package resolver has no application registry",
	IsUserFacing:    true,
	SuggestedAction: "Construct the resolver with service.NewPackageResolver.",
}

type AppError struct {
	Code            Code
	Message         string
	InternalDetails string
	IsUserFacing    bool
	SuggestedAction string
	WrappedError    error
	StackTrace      string
}

func (e *AppError) Error() string {
	if e.WrappedError != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.WrappedError)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.WrappedError
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StackTrace: string(debug.Stack()),
	}
}

func Newf(code Code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func NewUserFacing(code Code, message string, suggestion string) *AppError {
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}
}

// Wrap returns err unchanged when it already carries an AppError so the
// innermost code wins.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return &AppError{
		Code:         code,
		Message:      message,
		WrappedError: err,
		StackTrace:   string(debug.Stack()),
	}
}

func WrapUserFacing(err error, code Code, message string, suggestion string) *AppError {
	if err == nil {
		return nil
	}

	stack := string(debug.Stack())
	details := ""
	var appErr *AppError
	if errors.As(err, &appErr) {
		stack = appErr.StackTrace
		details = appErr.Error()
	}

	return &AppError{
		Code:            code,
		Message:         message,
		InternalDetails: details,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		WrappedError:    err,
		StackTrace:      stack,
	}
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err means an application or resource is absent.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case CodeApplicationNotFound, CodeResourceNotFound, CodeMetadataNotFound:
		return true
	}
	return false
}

func GetUserFacingMessage(err error) (string, string, bool) {
	var appErr *AppError
	next := err
	for next != nil {
		if !errors.As(next, &appErr) {
			break
		}
		if appErr.IsUserFacing {
			return appErr.Message, appErr.SuggestedAction, true
		}
		next = errors.Unwrap(appErr)
	}
	return "An unexpected error occurred.", "Check logs for more details.", false
}
