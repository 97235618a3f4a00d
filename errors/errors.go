package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Every error returned by a handler should wrap one of them so
// that clients can classify it by code.
var (
	// ErrUnauthorized: the signer may not perform the action, for example
	// a non chairperson granting voting rights.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound: the referenced ballot or record does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg: the message cannot be routed or handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel: a stored or decoded model is malformed.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate: a unique key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman: a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty: a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState: the operation conflicts with the current state, for
	// example voting twice.
	ErrState = Register(10, "invalid state")

	// ErrType: a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrInput: malformed or out of range input.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow: an arithmetic result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase: the storage layer failed.
	ErrDatabase = Register(17, "database")

	// ErrNetwork: a client could not reach the node. Never returned by the
	// chain itself.
	ErrNetwork = Register(18, "network")

	// ErrPanic: a recovered panic. Its message is redacted outside of
	// debug mode.
	ErrPanic = Register(111222, "panic")
)

// Register declares a new root error. Codes are unique across the process, a
// second registration of the same code panics. Call it from package level
// variable declarations only.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes maps every registered code to its root error.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal errors and must not be used.
}

// Error is a root error: a code and a short description. Runtime errors are
// created by wrapping one with New, Newf, Wrap or Wrapf.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is reports whether err is this root error or wraps it. A nil kind only
// matches a nil error.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		// A typed nil error matches as well.
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap prefixes err with description. A nil err stays nil. Errors that do
// not wrap a root error are reported as internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Only the innermost wrap records a stack trace.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format supports %+v to print the stack trace recorded by the innermost
// wrap.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.Error())
			if st := stackTrace(e); st != nil {
				fmt.Fprintf(s, "%+v", st)
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is implemented by wrapping errors.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the outermost stack trace found in the chain, or nil.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
