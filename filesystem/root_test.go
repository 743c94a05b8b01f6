package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freekieb7/fileresponder/test"
)

func TestRootConcat(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	test.AssertNoError(t, err)

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"plain file", "index.html", filepath.Join(root.Path(), "index.html")},
		{"nested file", "live/stream.m3u8", filepath.Join(root.Path(), "live", "stream.m3u8")},
		{"inner traversal", "live/../index.html", filepath.Join(root.Path(), "index.html")},
		{"dot segments", "./a/./b", filepath.Join(root.Path(), "a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := root.Concat(tt.rel)
			test.AssertNoError(t, err)
			test.AssertEqual(t, tt.want, got)
		})
	}
}

func TestRootConcatConfinement(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	test.AssertNoError(t, err)

	escapes := []string{
		"..",
		"../etc/passwd",
		"a/../../etc/passwd",
		"a/b/../../../../..",
		".",
		"a/..",
		"../" + filepath.Base(root.Path()) + "x/secret",
	}

	for _, rel := range escapes {
		t.Run(rel, func(t *testing.T) {
			got, err := root.Concat(rel)
			if !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("Expected ErrOutsideRoot for %q, got %q (%v)", rel, got, err)
			}
			if err == nil && !strings.HasPrefix(got, root.Path()) {
				t.Errorf("Resolved path %q escapes root %q", got, root.Path())
			}
		})
	}
}

func TestRootConcatFollowsSymlinks(t *testing.T) {
	outside := t.TempDir()
	test.AssertNoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("s"), 0644))

	dir := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	root, err := NewRoot(dir)
	test.AssertNoError(t, err)

	// confinement is lexical, the link itself lies below the root
	path, err := root.Concat("link/secret.txt")
	test.AssertNoError(t, err)
	test.AssertEqual(t, filepath.Join(dir, "link", "secret.txt"), path)

	info, err := NewLocalFileSystem().Stat(path)
	test.AssertNoError(t, err)
	test.AssertEqual(t, int64(1), info.Size())
}

func TestRootConcatInvalid(t *testing.T) {
	root, err := NewRoot(t.TempDir())
	test.AssertNoError(t, err)

	for _, rel := range []string{"", "a\x00b"} {
		if _, err := root.Concat(rel); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Expected ErrInvalidPath for %q, got %v", rel, err)
		}
	}

	var zero Root
	if !zero.IsZero() {
		t.Error("Zero root should report IsZero")
	}
	if _, err := zero.Concat("a"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath on zero root, got %v", err)
	}
}

func TestNewRoot(t *testing.T) {
	if _, err := NewRoot(""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}

	root, err := NewRoot("relative/dir/../dir")
	test.AssertNoError(t, err)
	test.AssertTrue(t, filepath.IsAbs(root.Path()), "root should be absolute")
	test.AssertTrue(t, strings.HasSuffix(root.Path(), filepath.Join("relative", "dir")), "root should be cleaned")

	test.AssertTrue(t, !HomeRoot().IsZero(), "home root should be set")
}
