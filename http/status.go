package http

import "strconv"

type Status uint16

const (
	StatusOK Status = 200 // RFC 9110, 15.3.1

	StatusNotModified Status = 304 // RFC 9110, 15.4.5

	StatusBadRequest                  Status = 400 // RFC 9110, 15.5.1
	StatusUnauthorized                Status = 401 // RFC 9110, 15.5.2
	StatusForbidden                   Status = 403 // RFC 9110, 15.5.4
	StatusNotFound                    Status = 404 // RFC 9110, 15.5.5
	StatusMethodNotAllowed            Status = 405 // RFC 9110, 15.5.6
	StatusRequestTimeout              Status = 408 // RFC 9110, 15.5.9
	StatusGone                        Status = 410 // RFC 9110, 15.5.11
	StatusRequestURITooLong           Status = 414 // RFC 9110, 15.5.15
	StatusTooManyRequests             Status = 429 // RFC 6585, 4
	StatusRequestHeaderFieldsTooLarge Status = 431 // RFC 6585, 5
	StatusUnavailableForLegalReasons  Status = 451 // RFC 7725, 3

	StatusInternalServerError     Status = 500 // RFC 9110, 15.6.1
	StatusNotImplemented          Status = 501 // RFC 9110, 15.6.2
	StatusServiceUnavailable      Status = 503 // RFC 9110, 15.6.4
	StatusHTTPVersionNotSupported Status = 505 // RFC 9110, 15.6.6
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = map[Status]string{
		StatusOK: "OK",

		StatusNotModified: "Not Modified",

		StatusBadRequest:                  "Bad Request",
		StatusUnauthorized:                "Unauthorized",
		StatusForbidden:                   "Forbidden",
		StatusNotFound:                    "Not Found",
		StatusMethodNotAllowed:            "Method Not Allowed",
		StatusRequestTimeout:              "Request Timeout",
		StatusGone:                        "Gone",
		StatusRequestURITooLong:           "Request URI Too Long",
		StatusTooManyRequests:             "Too Many Requests",
		StatusRequestHeaderFieldsTooLarge: "Request Header Fields Too Large",
		StatusUnavailableForLegalReasons:  "Unavailable For Legal Reasons",

		StatusInternalServerError:     "Internal Server Error",
		StatusNotImplemented:          "Not Implemented",
		StatusServiceUnavailable:      "Service Unavailable",
		StatusHTTPVersionNotSupported: "HTTP Version Not Supported",
	}
)

func (status Status) Text() string {
	if text, ok := statusMessages[status]; ok {
		return text
	}
	return unknownStatusCode
}

func (status Status) IsError() bool {
	return status >= 400
}

func (status Status) String() string {
	return strconv.Itoa(int(status)) + " " + status.Text()
}
