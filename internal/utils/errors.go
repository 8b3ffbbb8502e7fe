package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL"
)

// AppError is the unified error contract across layers.
type AppError struct {
	Code    Code
	Op      string   // operation name, ex: "ResumeGateway.Save"
	Message string   // safe message
	Fields  []string // offending field paths for validation failures
	Err     error    // wrapped error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	switch {
	case e.Op != "" && msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	case e.Op != "" && msg != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case msg != "":
		return msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

// Validation builds the ValidationError of the persistence path.
func Validation(op string, fields []string, err error) error {
	return &AppError{Code: CodeInvalidArgument, Op: op, Message: "validation failed", Fields: fields, Err: err}
}

// Storage builds the StorageError surfaced after retries are exhausted.
func Storage(op string, err error) error {
	return &AppError{Code: CodeUnavailable, Op: op, Message: "storage unavailable", Err: err}
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		case CodeTooManyRequests:
			return http.StatusTooManyRequests
		case CodeTimeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusInternalServerError
		}
	}
	// fallback
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("duplicate key")
	ErrSchemaRejected = errors.New("document failed schema validation")
)
