//go:build unix

package http

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isTransient(err error) bool {
	return isTimeout(err) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR)
}
