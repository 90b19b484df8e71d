package arch

import "fmt"

// Error is raised when a caller asks the descriptor about a register it
// does not know.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("arch: %s", e.Message)
}

func newError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
