// Package filex holds small filesystem helpers for the CLI: resolving local
// directories, sanitising download names and sniffing content types.
package filex

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned by SafeName when nothing usable is left of the name.
var ErrInvalidName = errors.New("invalid file name")

// EnsureDir creates dir (relative paths are resolved against the working
// directory) with 0700 permissions and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SafeName strips any directory part from a user- or server-supplied file
// name so that it cannot escape the download directory.
func SafeName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := filepath.Base(name)
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", ErrInvalidName
	}
	return base, nil
}

// DetectContentType guesses the MIME type from the extension first and falls
// back to sniffing the first bytes of data.
func DetectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil {
			return mediaType
		}
		return ct
	}
	ct := http.DetectContentType(data)
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}
