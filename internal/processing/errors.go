package processing

import "errors"

// ErrorKind classifies a boundary failure. Callers show Error.Message and
// do not branch on the kind; it labels metrics and logs.
type ErrorKind string

const (
	KindInvalidInputShape   ErrorKind = "invalid_input_shape"
	KindParseError          ErrorKind = "parse_error"
	KindAbnormalTermination ErrorKind = "abnormal_termination"
)

// Error is the single failure value produced by Parse
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf reports the boundary kind of err, or "" for errors that did not
// come from Parse
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
