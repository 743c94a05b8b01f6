package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// Root is an absolute directory that request paths are confined to.
type Root struct {
	path string
}

// NewRoot makes path absolute and cleans it. The directory does not have to exist yet.
func NewRoot(path string) (Root, error) {
	if path == "" {
		return Root{}, ErrInvalidPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Root{}, err
	}

	return Root{path: abs}, nil
}

// HomeRoot is the root used when none was configured.
func HomeRoot() Root {
	home, err := os.UserHomeDir()
	if err != nil {
		home = string(filepath.Separator)
	}

	return Root{path: filepath.Clean(home)}
}

func (root Root) Path() string {
	return root.path
}

func (root Root) IsZero() bool {
	return root.path == ""
}

// Concat joins rel onto the root. The result is always strictly inside the root,
// otherwise ErrOutsideRoot is returned. Confinement is lexical: a symlink below the
// root that points elsewhere is still followed by Stat and Open.
func (root Root) Concat(rel string) (string, error) {
	if root.path == "" || rel == "" || strings.IndexByte(rel, 0) >= 0 {
		return "", ErrInvalidPath
	}

	joined := filepath.Join(root.path, filepath.FromSlash(rel))
	if !root.Contains(joined) {
		return "", ErrOutsideRoot
	}

	return joined, nil
}

// Contains reports whether the cleaned path lies strictly below the root.
func (root Root) Contains(path string) bool {
	prefix := root.path
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	path = filepath.Clean(path)
	return len(path) > len(prefix) && strings.HasPrefix(path, prefix)
}
