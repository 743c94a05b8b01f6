package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/freekieb7/fileresponder/test"
)

func TestRequestParse(t *testing.T) {
	reqMsg := []byte("GET /video/index.m3u8?session=1 HTTP/1.1\r\nAccept: */*\r\nConnection: Keep-Alive\r\nHost: localhost\r\n\r\n")

	req, status, err := ParseRequest(reqMsg)
	test.AssertNoError(t, err)

	test.AssertEqual(t, StatusOK, status)
	test.AssertEqual(t, MethodGet, req.Method)
	test.AssertEqual(t, ProtocolHTTP11, req.Protocol)
	test.AssertEqual(t, "/video/index.m3u8", req.URL.PathForRequest())
	test.AssertEqual(t, "session=1", req.URL.RawQuery())
	test.AssertEqual(t, "index.m3u8", req.URL.FileName())
	test.AssertEqual(t, 3, req.Headers.Len())
	test.AssertEqual(t, "localhost", req.Headers.Value("host"))
	test.AssertTrue(t, req.KeepAlive(), "keep-alive requested")
}

func TestRequestParseBareLineFeeds(t *testing.T) {
	req, _, err := ParseRequest([]byte("HEAD /a.txt HTTP/1.0\nConnection: keep-alive\n\n"))
	test.AssertNoError(t, err)

	test.AssertEqual(t, MethodHead, req.Method)
	test.AssertEqual(t, ProtocolHTTP10, req.Protocol)
	test.AssertTrue(t, req.KeepAlive(), "keep-alive requested")
}

func TestRequestParseWithoutHeaders(t *testing.T) {
	req, status, err := ParseRequest([]byte("GET /a.txt HTTP/1.1\r\n\r\n"))
	test.AssertNoError(t, err)

	test.AssertEqual(t, StatusOK, status)
	test.AssertEqual(t, 0, req.Headers.Len())
	test.AssertTrue(t, !req.KeepAlive(), "no Connection header means close")
}

func TestRequestKeepAlive(t *testing.T) {
	tests := []struct {
		name      string
		headers   string
		keepAlive bool
	}{
		{"missing", "Host: a\r\n", false},
		{"exact", "Connection: Keep-Alive\r\n", true},
		{"lower case", "connection: keep-alive\r\n", true},
		{"upper case", "CONNECTION: KEEP-ALIVE\r\n", true},
		{"close", "Connection: close\r\n", false},
		{"token list", "Connection: keep-alive, Upgrade\r\n", false},
		{"last wins", "Connection: close\r\nConnection: Keep-Alive\r\n", true},
		{"last wins close", "Connection: Keep-Alive\r\nConnection: close\r\n", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _, err := ParseRequest([]byte("GET / HTTP/1.1\r\n" + tc.headers + "\r\n"))
			test.AssertNoError(t, err)
			test.AssertEqual(t, tc.keepAlive, req.KeepAlive())
		})
	}
}

func TestRequestParseIncomplete(t *testing.T) {
	parts := []string{
		"",
		"GET /a.txt",
		"GET /a.txt HTTP/1.1\r\n",
		"GET /a.txt HTTP/1.1\r\nHost: localhost\r\n",
		"GET /a.txt HTTP/1.1\r\nHost: localhost\r\n\r",
	}

	for _, part := range parts {
		_, _, err := ParseRequest([]byte(part))
		if !errors.Is(err, ErrIncomplete) {
			t.Errorf("%q: expected ErrIncomplete, got %v", part, err)
		}
	}
}

func TestRequestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		err    error
		status Status
	}{
		{"garbage", "GARBAGE\r\n\r\n", ErrMalformedRequestLine, StatusBadRequest},
		{"missing version", "GET /\r\n\r\n", ErrMalformedRequestLine, StatusBadRequest},
		{"extra part", "GET / x HTTP/1.1\r\n\r\n", ErrMalformedRequestLine, StatusBadRequest},
		{"bad version prefix", "GET / HTXP/1.1\r\n\r\n", ErrMalformedRequestLine, StatusBadRequest},
		{"bad method", "G@T / HTTP/1.1\r\n\r\n", ErrInvalidMethod, StatusBadRequest},
		{"unsupported version", "GET / HTTP/2.0\r\n\r\n", ErrUnsupportedVersion, StatusHTTPVersionNotSupported},
		{"header without colon", "GET / HTTP/1.1\r\nHost localhost\r\n\r\n", ErrMalformedHeader, StatusBadRequest},
		{"header with empty name", "GET / HTTP/1.1\r\n: value\r\n\r\n", ErrMalformedHeader, StatusBadRequest},
		{"folded header", "GET / HTTP/1.1\r\nHost: a\r\n b\r\n\r\n", ErrMalformedHeader, StatusBadRequest},
		{"space in name", "GET / HTTP/1.1\r\nHo st: a\r\n\r\n", ErrMalformedHeader, StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, status, err := ParseRequest([]byte(tc.msg))
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			test.AssertEqual(t, tc.status, status)
		})
	}
}

func TestRequestParseMalformedLineBeforeHeadersComplete(t *testing.T) {
	// a broken request line is reported without waiting for the header block
	_, status, err := ParseRequest([]byte("BROKEN\r\n"))
	if !errors.Is(err, ErrMalformedRequestLine) {
		t.Fatalf("expected ErrMalformedRequestLine, got %v", err)
	}
	test.AssertEqual(t, StatusBadRequest, status)
}

func TestRequestParseTooLarge(t *testing.T) {
	msg := "GET / HTTP/1.1\r\nX-Fill: " + strings.Repeat("a", MaxRequestSize) + "\r\n"

	_, status, err := ParseRequest([]byte(msg))
	if !errors.Is(err, ErrHeadersTooLarge) {
		t.Fatalf("expected ErrHeadersTooLarge, got %v", err)
	}
	test.AssertEqual(t, StatusRequestHeaderFieldsTooLarge, status)

	_, status, err = ParseRequest([]byte(strings.Repeat("a", MaxRequestSize)))
	if !errors.Is(err, ErrHeadersTooLarge) {
		t.Fatalf("expected ErrHeadersTooLarge for an endless request line, got %v", err)
	}
	test.AssertEqual(t, StatusRequestHeaderFieldsTooLarge, status)
}

func TestRequestParseTooManyHeaders(t *testing.T) {
	var b strings.Builder
	b.WriteString("GET / HTTP/1.1\r\n")
	for i := 0; i <= MaxRequestHeaders; i++ {
		b.WriteString("X-A: b\r\n")
	}
	b.WriteString("\r\n")

	_, status, err := ParseRequest([]byte(b.String()))
	if !errors.Is(err, ErrTooManyHeaders) {
		t.Fatalf("expected ErrTooManyHeaders, got %v", err)
	}
	test.AssertEqual(t, StatusRequestHeaderFieldsTooLarge, status)
}

func TestRequestParseIgnoresTrailingBytes(t *testing.T) {
	req, _, err := ParseRequest([]byte("GET /a HTTP/1.1\r\nHost: x\r\n\r\nGET /b HTTP/1.1\r\n"))
	test.AssertNoError(t, err)
	test.AssertEqual(t, "/a", req.URL.PathForRequest())
	test.AssertEqual(t, 1, req.Headers.Len())
}

func TestURL(t *testing.T) {
	tests := []struct {
		target   string
		valid    bool
		path     string
		fileName string
	}{
		{"/index.html", true, "/index.html", "index.html"},
		{"/dir/", true, "/dir/", ""},
		{"/", true, "/", ""},
		{"/a%20b.txt", true, "/a b.txt", "a b.txt"},
		{"http://localhost:8080/live/seg1.ts", true, "/live/seg1.ts", "seg1.ts"},
		{"*", false, "", ""},
		{"index.html", false, "", ""},
		{"/bad%zz", false, "", ""},
		{"/nul%00.txt", false, "", ""},
	}

	for _, tc := range tests {
		u := ParseURL(tc.target)
		test.AssertEqual(t, tc.valid, u.IsValid())
		test.AssertEqual(t, tc.path, u.PathForRequest())
		test.AssertEqual(t, tc.fileName, u.FileName())
		test.AssertEqual(t, tc.target, u.String())
	}
}

func TestHeadersFind(t *testing.T) {
	var headers Headers
	headers.Add("Content-Type", "text/plain")
	headers.Add("X-Trace", "1")
	headers.Add("x-trace", "2")

	header, found := headers.Find("x-trace", false)
	test.AssertTrue(t, found, "case insensitive lookup")
	test.AssertEqual(t, "2", header.Value)

	header, found = headers.Find("X-Trace", true)
	test.AssertTrue(t, found, "case sensitive lookup")
	test.AssertEqual(t, "1", header.Value)

	_, found = headers.Find("content-type", true)
	test.AssertTrue(t, !found, "case sensitive lookup must not fold case")

	test.AssertEqual(t, "", headers.Value("missing"))
}

func BenchmarkRequestParse(b *testing.B) {
	reqMsg := []byte("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")

	for i := 0; i < b.N; i++ {
		if _, _, err := ParseRequest(reqMsg); err != nil {
			b.Error(err)
		}
	}
}
