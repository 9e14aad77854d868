// Package storage persists model artifacts on the local filesystem. Files
// are content-addressed by their SHA-256 digest so re-uploading the same
// artifact is idempotent.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save streams the reader to disk and returns the stored URI, the SHA-256
// checksum, and the byte size. The file is written to a temp path first and
// renamed into place once the digest is known.
func (s *FileStore) Save(r io.Reader) (uri, checksum string, size int64, err error) {
	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		return "", "", 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	size, err = io.Copy(io.MultiWriter(tmp, h), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", "", 0, fmt.Errorf("write artifact: %w", err)
	}

	checksum = hex.EncodeToString(h.Sum(nil))
	final := filepath.Join(s.dir, checksum+".nm")
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", "", 0, fmt.Errorf("store artifact: %w", err)
	}

	return "file://" + final, checksum, size, nil
}

// Open returns a reader for a URI previously returned by Save, along with
// the file size.
func (s *FileStore) Open(uri string) (io.ReadCloser, int64, error) {
	path, ok := localPath(uri)
	if !ok {
		return nil, 0, fmt.Errorf("unsupported artifact uri %q", uri)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open artifact: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat artifact: %w", err)
	}
	return f, info.Size(), nil
}

func localPath(uri string) (string, bool) {
	const scheme = "file://"
	if len(uri) <= len(scheme) || uri[:len(scheme)] != scheme {
		return "", false
	}
	return uri[len(scheme):], true
}
