// Package storage provides object storage for avatars and hackathon images:
// upload-by-path with an overwrite option, plus public URL resolution.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrObjectExists is returned by Upload when overwrite is false and the
// object already exists.
var ErrObjectExists = errors.New("object already exists")

// Store is the object storage boundary consumed by the services.
type Store interface {
	// Upload stores content under path and returns its public URL.
	Upload(ctx context.Context, path string, content io.Reader, overwrite bool) (string, error)
	// PublicURL resolves the public URL for an object path.
	PublicURL(path string) string
}

// DiskStore keeps objects on the local filesystem and serves them from a
// public base URL (the HTTP server mounts the root directory under /media/).
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir, resolving public URLs
// against baseURL.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &DiskStore{root: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(ctx context.Context, path string, content io.Reader, overwrite bool) (string, error) {
	clean := filepath.Clean("/" + path)
	dest := filepath.Join(s.root, clean)

	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return "", ErrObjectExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, content)
	if err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	log.Debug().Str("path", clean).Int64("bytes", written).Msg("stored object")
	return s.PublicURL(clean), nil
}

func (s *DiskStore) PublicURL(path string) string {
	return s.baseURL + "/media/" + strings.TrimPrefix(path, "/")
}

// Root returns the directory objects are stored under, for mounting a file
// server.
func (s *DiskStore) Root() string {
	return s.root
}
