package http

import "strings"

type Header struct {
	Name  string
	Value string
}

// Headers keeps request headers in arrival order.
type Headers []Header

func (headers *Headers) Add(name, value string) {
	*headers = append(*headers, Header{Name: name, Value: value})
}

// Find returns the last header called name. Names compare case-insensitively unless
// caseSensitive is set.
func (headers Headers) Find(name string, caseSensitive bool) (Header, bool) {
	for i := len(headers) - 1; i >= 0; i-- {
		header := headers[i]
		if caseSensitive {
			if header.Name == name {
				return header, true
			}
			continue
		}
		if strings.EqualFold(header.Name, name) {
			return header, true
		}
	}
	return Header{}, false
}

func (headers Headers) Value(name string) string {
	header, _ := headers.Find(name, false)
	return header.Value
}

func (headers Headers) Len() int {
	return len(headers)
}
