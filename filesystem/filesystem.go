package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrProtected    = errors.New("filesystem: file is protected")
	ErrInvalidPath  = errors.New("filesystem: invalid path")
	ErrOutsideRoot  = errors.New("filesystem: path escapes root")
)

// File is an opened, read-only file. *os.File satisfies it.
type File interface {
	io.Reader
	io.Closer
}

// Filesystem is what the responder needs from the disk. Paths are absolute and already
// confined by a Root.
type Filesystem interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (File, error)
	IsDirectory(path string) (bool, error)
}

type local struct{}

func NewLocalFileSystem() Filesystem {
	return local{}
}

// Stat follows symlinks. A missing path wraps ErrFileNotFound.
func (local) Stat(path string) (fs.FileInfo, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	return info, nil
}

// Open opens path read-only. A permission failure wraps ErrProtected.
func (local) Open(path string) (File, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, classify(path, err)
	}
	return file, nil
}

// IsDirectory reports false without an error for a path that does not exist.
func (l local) IsDirectory(path string) (bool, error) {
	info, err := l.Stat(path)
	if errors.Is(err, ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrProtected, path, err)
	}
	return err
}

// Close releases file and logs instead of returning a close failure, for use in defer.
func Close(file File, path string) {
	if err := file.Close(); err != nil {
		slog.Error("closing file error", "path", path, "error", err)
	}
}

// Extension returns the extension of name including the dot, or "".
func Extension(name string) string {
	return filepath.Ext(name)
}
