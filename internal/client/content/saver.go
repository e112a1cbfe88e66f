package content

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

const maxNameAttempts = 1000

// Saver writes downloads into a directory through afs. Existing files are
// never overwritten: "cat.png" becomes "cat-1.png" and so on.
type Saver struct {
	fs  afs.Service
	dir string
}

// NewSaver saves into dir, which must already exist (see filex.EnsureDir).
func NewSaver(dir string) *Saver {
	return &Saver{fs: afs.New(), dir: dir}
}

func (s *Saver) Dir() string { return s.dir }

// Save stores data as name inside the directory and returns the full path.
// name must be a bare file name.
func (s *Saver) Save(ctx context.Context, name string, data []byte) (string, error) {
	target, err := s.freeName(ctx, name)
	if err != nil {
		return "", err
	}

	if err := s.fs.Upload(ctx, target, 0o600, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

func (s *Saver) freeName(ctx context.Context, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; i <= maxNameAttempts; i++ {
		target := filepath.Join(s.dir, candidate)
		exists, err := s.fs.Exists(ctx, target)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", target, err)
		}
		if !exists {
			return target, nil
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	return "", fmt.Errorf("no free name for %s in %s", name, s.dir)
}
