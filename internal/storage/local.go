package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// localStorage implements Storage on the local filesystem. Uploaded files
// are written under a base directory; Fetch returns the on-disk path
// directly, so extraction reads the stored file without copying.
type localStorage struct {
	baseDir string
}

// NewLocal creates a disk-backed storage rooted at baseDir, creating the
// directory if needed.
func NewLocal(baseDir string) (Storage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

func (l *localStorage) path(key string) string {
	// Keys are generated (UUID + extension); Base guards against any
	// traversal in the unexpected case of a caller-supplied key.
	return filepath.Join(l.baseDir, filepath.Base(key))
}

func (l *localStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	dst := l.path(key)
	f, err := os.Create(dst)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", dst, err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Fetch(_ context.Context, key string) (string, func(), error) {
	p := l.path(key)
	if _, err := os.Stat(p); err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", p, err)
	}
	return p, func() {}, nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(l.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
