// Package tqerrors provides a CLI-facing error type that carries both an
// operator-facing display message and a separate technical Error() string,
// used by cmd/tsictl's command interpreter (§A.5).
package tqerrors

import "fmt"

// interpreterError is an error caused by attempting to interpret a tsictl
// command line. Either the input could not be understood or it specifies
// an operation that is impossible or not allowed in the shell's current
// state (e.g. `dispatch` before a renderings file is loaded).
type interpreterError struct {
	msg     string
	display string
	wrap    error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// DisplayMessage is the message to print to the operator's terminal.
func (e *interpreterError) DisplayMessage() string {
	return e.display
}

func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new interpreter error carrying both the
// operator-facing display message and the technical description.
func Interpreter(display, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got interpreterError(%q)", display)
	}
	return &interpreterError{
		msg:     technical,
		display: display,
	}
}

// Interpreterf is Interpreter with a formatted display message and an
// automatically generated Error() description.
func Interpreterf(displayFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(displayFormat, a...), "")
}

// WrapInterpreter is Interpreter but wraps an underlying error.
func WrapInterpreter(e error, display, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got interpreterError(%q)", display)
	}
	return &interpreterError{
		msg:     technical,
		display: display,
		wrap:    e,
	}
}

// WrapInterpreterf is WrapInterpreter with a formatted display message.
func WrapInterpreterf(e error, displayFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(displayFormat, a...), "")
}

// DisplayMessage gets the message to show the operator for err. If err is
// one of the types defined in tqerrors, the display message is returned;
// otherwise err.Error() is returned.
func DisplayMessage(err error) string {
	if intErr, ok := err.(*interpreterError); ok {
		return intErr.DisplayMessage()
	}
	return err.Error()
}
