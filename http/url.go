package http

import (
	"net/url"
	"path"
	"strings"
)

// URL is the parsed request target. Only origin-form and absolute-form targets
// with an absolute path are valid.
type URL struct {
	raw   string
	path  string
	query string
	valid bool
}

func ParseURL(target string) URL {
	u := URL{raw: target}

	parsed, err := url.ParseRequestURI(target)
	if err != nil {
		return u
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.IndexByte(parsed.Path, 0) >= 0 {
		return u
	}

	u.path = parsed.Path
	u.query = parsed.RawQuery
	u.valid = true
	return u
}

func (u URL) IsValid() bool {
	return u.valid
}

// PathForRequest is the decoded absolute path, always starting with "/" when valid.
func (u URL) PathForRequest() string {
	return u.path
}

func (u URL) RawQuery() string {
	return u.query
}

// FileName is the last path element, used for MIME lookup.
func (u URL) FileName() string {
	if !u.valid || strings.HasSuffix(u.path, "/") {
		return ""
	}
	return path.Base(u.path)
}

func (u URL) String() string {
	return u.raw
}
