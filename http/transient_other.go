//go:build !unix

package http

func isTransient(err error) bool {
	return isTimeout(err)
}
