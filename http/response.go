package http

import (
	"html"
	"strconv"
	"time"
)

// TimeFormat is the IMF-fixdate layout used for Date and Last-Modified.
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// appendStatusLine writes the status line and the headers shared by every response.
func appendStatusLine(buf []byte, protocol Protocol, status Status, extraHeader string, keepAlive bool, info ServerInfo, now time.Time) []byte {
	buf = append(buf, protocol.String()...)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(status), 10)
	buf = append(buf, ' ')
	buf = append(buf, status.Text()...)
	buf = append(buf, crlf...)

	if info.Name != "" {
		buf = appendHeader(buf, "Server", info.String())
	}
	buf = appendHeader(buf, "Date", now.UTC().Format(TimeFormat))
	if extraHeader != "" {
		buf = append(buf, extraHeader...)
		buf = append(buf, crlf...)
	}
	if keepAlive {
		buf = appendHeader(buf, "Connection", "Keep-Alive")
	} else {
		buf = appendHeader(buf, "Connection", "close")
	}

	return buf
}

func appendHeader(buf []byte, name, value string) []byte {
	buf = append(buf, name...)
	buf = append(buf, ": "...)
	buf = append(buf, value...)
	return append(buf, crlf...)
}

// AppendErrorResponse serializes a complete error response with a small HTML body
// carrying message.
func AppendErrorResponse(buf []byte, protocol Protocol, status Status, extraHeader, message string, keepAlive bool, info ServerInfo, now time.Time) []byte {
	body := errorBody(status, message)
	buf = appendErrorHead(buf, protocol, status, extraHeader, len(body), keepAlive, info, now)
	return append(buf, body...)
}

// AppendErrorHead serializes the head AppendErrorResponse would write, for HEAD
// requests. Content-Length still announces the page.
func AppendErrorHead(buf []byte, protocol Protocol, status Status, extraHeader, message string, keepAlive bool, info ServerInfo, now time.Time) []byte {
	return appendErrorHead(buf, protocol, status, extraHeader, len(errorBody(status, message)), keepAlive, info, now)
}

func appendErrorHead(buf []byte, protocol Protocol, status Status, extraHeader string, size int, keepAlive bool, info ServerInfo, now time.Time) []byte {
	buf = appendStatusLine(buf, protocol, status, extraHeader, keepAlive, info, now)
	buf = appendHeader(buf, "Content-Type", "text/html; charset=utf-8")
	buf = appendHeader(buf, "Content-Length", strconv.Itoa(size))
	return append(buf, crlf...)
}

// AppendHeaders serializes a response head. A negative size omits Content-Length and a
// zero mtime omits Last-Modified.
func AppendHeaders(buf []byte, protocol Protocol, status Status, extraHeader, mime string, size int64, mtime time.Time, keepAlive bool, info ServerInfo, now time.Time) []byte {
	buf = appendStatusLine(buf, protocol, status, extraHeader, keepAlive, info, now)
	if mime != "" {
		buf = appendHeader(buf, "Content-Type", mime)
	}
	if size >= 0 {
		buf = appendHeader(buf, "Content-Length", strconv.FormatInt(size, 10))
	}
	if !mtime.IsZero() {
		buf = appendHeader(buf, "Last-Modified", mtime.UTC().Format(TimeFormat))
	}
	return append(buf, crlf...)
}

func errorBody(status Status, message string) string {
	title := html.EscapeString(status.String())
	return "<!DOCTYPE html><html><head><title>" + title + "</title></head>" +
		"<body><h1>" + title + "</h1><p>" + html.EscapeString(message) + "</p></body></html>"
}
