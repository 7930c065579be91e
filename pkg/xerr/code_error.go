package xerr

import "fmt"

// CodeError carries an HTTP-ish code together with a user-facing message.
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New creates a CodeError.
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

const (
	OK                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrSuccess     = New(OK, "Success")
	ErrServerError = New(InternalServerError, "internal server error")
	ErrParam       = New(BadRequest, "invalid request parameters")
)

// Invalid marks caller-side input errors (bad table name, unparseable CSV).
// They are rejected before any external system is touched.
func Invalid(msg string) *CodeError {
	return New(BadRequest, msg)
}

// Upstream wraps a store / embedding / vector / chat failure. These are
// terminal for the current request and never retried.
func Upstream(err error) *CodeError {
	return New(InternalServerError, err.Error())
}
