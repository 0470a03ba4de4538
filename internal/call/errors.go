package call

import "fmt"

// Code identifies which step of the call lifecycle an error came from.
type Code string

const (
	// CodeAuth covers token fetch failures and backend-reported errors.
	CodeAuth Code = "auth"

	// CodeClientInit covers fabric session creation failures.
	CodeClientInit Code = "client_init"

	// CodeDial covers dial rejections.
	CodeDial Code = "dial"

	// CodeStart covers call start failures.
	CodeStart Code = "start"

	// CodeHangup covers hangup failures. Non-fatal: logged only, teardown
	// proceeds regardless.
	CodeHangup Code = "hangup"
)

// Error is a call lifecycle failure tagged with the step that produced it.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}
