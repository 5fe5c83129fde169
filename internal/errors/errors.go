package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeSheetFetchFailed = "SHEET_FETCH_FAILED"
	CodeSheetParseFailed = "SHEET_PARSE_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_FAILED"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeStorageFailed    = "STORAGE_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// SheetFetch reports a failed download of a published sheet
func SheetFetch(message string, cause error) *AppError {
	return &AppError{Code: CodeSheetFetchFailed, Message: message, Cause: cause}
}

// SheetParse reports a sheet body that could not be read as a table
func SheetParse(message string, cause error) *AppError {
	return &AppError{Code: CodeSheetParseFailed, Message: message, Cause: cause}
}

func Export(message string, cause error) *AppError {
	return &AppError{Code: CodeExportFailed, Message: message, Cause: cause}
}

func Storage(message string, cause error) *AppError {
	return &AppError{Code: CodeStorageFailed, Message: message, Cause: cause}
}

// IsSheetFailure reports whether err came from fetching or parsing a sheet
func IsSheetFailure(err error) bool {
	code := GetCode(err)
	return code == CodeSheetFetchFailed || code == CodeSheetParseFailed
}

// HTTPStatus maps the code of err to a response status
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeSheetFetchFailed, CodeSheetParseFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the message of the innermost AppError, which is the one
// worded for users
func Message(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	for {
		var inner *AppError
		if appErr.Cause == nil || !stderrors.As(appErr.Cause, &inner) {
			return appErr.Message
		}
		appErr = inner
	}
}
