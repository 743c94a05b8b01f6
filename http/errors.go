package http

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what went wrong during one exchange. No kind outlives the
// invocation that produced it.
type ErrorKind int

const (
	TransientIO ErrorKind = iota
	ConnectionTerminated
	MalformedRequest
	InvalidTarget
	NotFound
	IsDirectory
	PermissionDenied
	HeaderSendFailure
	BodySendFailure
)

func (kind ErrorKind) String() string {
	switch kind {
	case TransientIO:
		return "transient io"
	case ConnectionTerminated:
		return "connection terminated"
	case MalformedRequest:
		return "malformed request"
	case InvalidTarget:
		return "invalid target"
	case NotFound:
		return "not found"
	case IsDirectory:
		return "is directory"
	case PermissionDenied:
		return "permission denied"
	case HeaderSendFailure:
		return "header send failure"
	case BodySendFailure:
		return "body send failure"
	default:
		return fmt.Sprintf("unknown error kind: %d", int(kind))
	}
}

var ErrWouldBlock = errors.New("http: no data available yet")

// Error carries the kind, the status and message sent to the client, and the cause.
type Error struct {
	Kind    ErrorKind
	Status  Status
	Message string

	underlying error
}

func NewError(kind ErrorKind, status Status, message string, underlying error) *Error {
	return &Error{
		Kind:       kind,
		Status:     status,
		Message:    message,
		underlying: underlying,
	}
}

func (e *Error) Error() string {
	if e.underlying != nil {
		return fmt.Sprintf("http: %s (underlying: %v)", e.Kind, e.underlying)
	}
	return fmt.Sprintf("http: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.underlying
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.Kind, true
	}
	return 0, false
}
