package http

type OutcomeKind uint8

const (
	// OutcomeSkipped: the method is not served, nothing was written.
	OutcomeSkipped OutcomeKind = iota
	OutcomeError
	OutcomeHeaders
	OutcomeBody
)

func (kind OutcomeKind) String() string {
	switch kind {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "error"
	case OutcomeHeaders:
		return "headers"
	case OutcomeBody:
		return "body"
	}
	return "unknown"
}

// Outcome is the single result of one exchange. It drives the lifecycle decision.
type Outcome struct {
	Kind      OutcomeKind
	Status    Status
	Message   string
	Protocol  Protocol
	KeepAlive bool

	Method string
	Path   string
	Size   int64
	Sent   int64

	// Err is set for error outcomes and for headers/body outcomes whose transmission failed.
	Err error
}

func skipped(protocol Protocol, keepAlive bool, method string) Outcome {
	return Outcome{
		Kind:      OutcomeSkipped,
		Protocol:  protocol,
		KeepAlive: keepAlive,
		Method:    method,
	}
}

func failed(protocol Protocol, keepAlive bool, err *Error) Outcome {
	return Outcome{
		Kind:      OutcomeError,
		Status:    err.Status,
		Message:   err.Message,
		Protocol:  protocol,
		KeepAlive: keepAlive,
		Err:       err,
	}
}
