package http

import (
	"bytes"
	"errors"
	"strings"
)

// ParseError is a parse failure together with the status and the short description that
// are sent back to the client.
type ParseError struct {
	Status      Status
	Description string
}

func (err *ParseError) Error() string {
	return "http: " + err.Description
}

var (
	ErrIncomplete = errors.New("http: incomplete request")

	ErrMalformedRequestLine = &ParseError{StatusBadRequest, "Malformed request line."}
	ErrInvalidMethod        = &ParseError{StatusBadRequest, "Invalid method."}
	ErrMalformedHeader      = &ParseError{StatusBadRequest, "Malformed header."}
	ErrUnsupportedVersion   = &ParseError{StatusHTTPVersionNotSupported, "Unsupported protocol version."}
	ErrTooManyHeaders       = &ParseError{StatusRequestHeaderFieldsTooLarge, "Too many headers."}
	ErrHeadersTooLarge      = &ParseError{StatusRequestHeaderFieldsTooLarge, "Request headers too large."}
)

type Request struct {
	Method   string
	URL      URL
	Protocol Protocol
	Headers  Headers
}

// KeepAlive is true only when the client sent "Connection: Keep-Alive" (any case).
// HTTP/1.1 persistence is not implied.
func (req *Request) KeepAlive() bool {
	connection, found := req.Headers.Find("Connection", false)
	if !found {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(connection.Value), "Keep-Alive")
}

// ParseRequest parses one request head from data. ErrIncomplete means more bytes are
// needed; any other error is a *ParseError whose status is also returned.
// Bytes after the header block are ignored.
func ParseRequest(data []byte) (Request, Status, error) {
	var req Request

	lineEnd := bytes.IndexByte(data, '\n')
	if lineEnd == -1 {
		if len(data) >= MaxRequestSize {
			return req, ErrHeadersTooLarge.Status, ErrHeadersTooLarge
		}
		return req, 0, ErrIncomplete
	}

	if err := req.parseRequestLine(trimCR(data[:lineEnd])); err != nil {
		return req, statusOf(err), err
	}

	blockEnd, sepLen := headerBlockBoundary(data)
	if blockEnd == -1 {
		if len(data) >= MaxRequestSize {
			return req, ErrHeadersTooLarge.Status, ErrHeadersTooLarge
		}
		return req, 0, ErrIncomplete
	}

	// the request line is followed by its newline, the block by its terminator
	start := lineEnd + 1
	end := blockEnd + sepLen
	if start < end {
		if err := req.parseHeaders(data[start:end]); err != nil {
			return req, statusOf(err), err
		}
	}

	return req, StatusOK, nil
}

func (req *Request) parseRequestLine(line []byte) error {
	parts := strings.Split(string(line), " ")
	if len(parts) != 3 {
		return ErrMalformedRequestLine
	}

	method, target, version := parts[0], parts[1], parts[2]
	if !isToken(method) {
		return ErrInvalidMethod
	}
	if target == "" {
		return ErrMalformedRequestLine
	}

	if !strings.HasPrefix(version, "HTTP/") {
		return ErrMalformedRequestLine
	}
	protocol, ok := parseProtocol(version)
	if !ok {
		return ErrUnsupportedVersion
	}

	req.Method = method
	req.URL = ParseURL(target)
	req.Protocol = protocol
	return nil
}

func (req *Request) parseHeaders(block []byte) error {
	req.Headers = make(Headers, 0, 8)

	for len(block) > 0 {
		idx := bytes.IndexByte(block, '\n')
		if idx == -1 {
			return ErrMalformedHeader
		}
		line := trimCR(block[:idx])
		block = block[idx+1:]

		if len(line) == 0 {
			break
		}
		// obsolete line folding
		if line[0] == ' ' || line[0] == '\t' {
			return ErrMalformedHeader
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return ErrMalformedHeader
		}
		name := string(line[:colon])
		if !isToken(name) {
			return ErrMalformedHeader
		}

		if req.Headers.Len() >= MaxRequestHeaders {
			return ErrTooManyHeaders
		}
		req.Headers.Add(name, string(bytes.TrimSpace(line[colon+1:])))
	}

	return nil
}

// headerBlockBoundary finds the earliest empty line. It returns the index where the
// terminator starts and its length.
func headerBlockBoundary(data []byte) (int, int) {
	strict := bytes.Index(data, headerBlockEnd)
	bare := bytes.Index(data, bareBlockEnd)

	switch {
	case strict == -1 && bare == -1:
		return -1, 0
	case bare == -1 || (strict != -1 && strict < bare):
		return strict, len(headerBlockEnd)
	default:
		return bare, len(bareBlockEnd)
	}
}

func trimCR(line []byte) []byte {
	return bytes.TrimSuffix(line, crlf[:1])
}

func statusOf(err error) Status {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Status
	}
	return StatusBadRequest
}
