package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains file storage abstractions for uploaded documents.
// The default backend writes to local disk; an S3-compatible backend (MinIO)
// is available for deployments that need it.

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage stores uploaded documents and hands them back to the text
// extractor as local files.
type Storage interface {
	// Put stores an object under the given key using the provided reader
	// and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)

	// Fetch materializes the object as a local file and returns its path.
	// The cleanup func must be called when the path is no longer needed;
	// for backends that already keep files on disk it is a no-op.
	Fetch(ctx context.Context, key string) (string, func(), error)

	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
