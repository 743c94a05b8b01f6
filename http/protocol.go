package http

type Protocol uint8

const (
	ProtocolHTTP10 Protocol = iota
	ProtocolHTTP11
)

func (protocol Protocol) String() string {
	if protocol == ProtocolHTTP10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

func parseProtocol(version string) (Protocol, bool) {
	switch version {
	case "HTTP/1.1":
		return ProtocolHTTP11, true
	case "HTTP/1.0":
		return ProtocolHTTP10, true
	}
	return ProtocolHTTP11, false
}

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodConnect = "CONNECT"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)

// isServable reports whether the responder acts on the method at all.
func isServable(method string) bool {
	return method == MethodGet || method == MethodHead
}

// isToken reports whether s is a non-empty RFC 9110 token.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
