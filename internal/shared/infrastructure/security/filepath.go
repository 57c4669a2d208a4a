// Package security checks file paths taken from configuration before they
// reach file-backed storage.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is wrapped by every rejection from ValidateFilePath.
var ErrUnsafePath = errors.New("unsafe file path")

// shellMeta never appears in a legitimate database file name.
const shellMeta = ";&|$`(){}<>!\n\r"

// ValidateFilePath rejects empty paths and paths containing shell
// metacharacters, then returns the absolute, symlink-free form. A path that
// does not exist yet comes back absolute and cleaned.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if i := strings.IndexAny(path, shellMeta); i >= 0 {
		return "", fmt.Errorf("%w: %q contains %q", ErrUnsafePath, path, path[i])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case err == nil:
		return resolved, nil
	case errors.Is(err, fs.ErrNotExist):
		return abs, nil
	default:
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
}
