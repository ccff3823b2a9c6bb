package surface

import (
	"github.com/pkg/errors"
)

// Errors
var (
	ErrClosed       = errors.New("surface: use of released surface")
	ErrLocked       = errors.New("surface: surface is locked")
	ErrNoColorKey   = errors.New("surface: surface doesn't have a colorkey")
	ErrInvalidSize  = errors.New("surface: invalid surface size")
	ErrInvalidFlags = errors.New("surface: invalid surface flags")
)

// Error records a failed surface operation and its cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// opError wraps err for op; it returns nil for a nil err.
func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// opErrorf records a new cause for op.
func opErrorf(op, format string, args ...any) error {
	return &Error{Op: op, Err: errors.Errorf("surface: "+format, args...)}
}

// report turns the outcome of a best-effort call into a success flag, keeping
// the cause in the debug log.
func report(op string, err error) bool {
	if err != nil {
		Logger().Debug("surface: call failed", "op", op, "err", err)
		return false
	}
	return true
}
