//go:build !linux

package http

import (
	"net"

	"github.com/freekieb7/fileresponder/filesystem"
)

func sendFile(dst net.Conn, file filesystem.File, size int64) (int64, error) {
	return copyFile(dst, file, size)
}
