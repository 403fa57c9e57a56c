package bridge

import "fmt"

// Error codes returned to bridge clients.
const (
	CodeInvalidArgs    = "INVALID_ARGS"
	CodeUnavailable    = "UNAVAILABLE"
	CodeMemoryError    = "MEMORY_ERROR"
	CodeAccessDenied   = "ACCESS_DENIED"
	CodeNotADirectory  = "NOT_A_DIRECTORY"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// Error is a failed operation: a machine-readable code plus a reason
// suitable for display.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func newError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
