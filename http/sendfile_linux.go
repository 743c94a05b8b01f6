//go:build linux

package http

import (
	"io"
	"net"
	"os"
	"syscall"

	"github.com/freekieb7/fileresponder/filesystem"
	"golang.org/x/sys/unix"
)

// Linux caps a single sendfile call slightly below 2GiB.
const maxSendfileChunk = 1 << 30

// sendFile hands the copy to the kernel when both ends are real descriptors and
// falls back to a user space copy otherwise.
func sendFile(dst net.Conn, file filesystem.File, size int64) (int64, error) {
	src, ok := file.(*os.File)
	if !ok {
		return copyFile(dst, file, size)
	}
	sc, ok := dst.(syscall.Conn)
	if !ok {
		return copyFile(dst, file, size)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return copyFile(dst, file, size)
	}

	srcFd := int(src.Fd())

	var written int64
	var sendErr error
	err = raw.Write(func(fd uintptr) bool {
		for written < size {
			chunk := size - written
			if chunk > maxSendfileChunk {
				chunk = maxSendfileChunk
			}

			n, err := unix.Sendfile(int(fd), srcFd, nil, int(chunk))
			if n > 0 {
				written += int64(n)
			}

			switch {
			case err == unix.EAGAIN:
				// socket buffer full, wait for writability
				return false
			case err == unix.EINTR:
				continue
			case err != nil:
				sendErr = os.NewSyscallError("sendfile", err)
				return true
			case n == 0:
				// file shrank since it was stat'ed
				sendErr = io.ErrUnexpectedEOF
				return true
			}
		}
		return true
	})
	if err == nil {
		err = sendErr
	}

	return written, err
}
