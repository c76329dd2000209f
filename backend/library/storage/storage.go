package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage writes and serves collected file blobs, addressed by object key.
// The only driver today is local disk; keys are opaque so a bucket-backed
// driver can slot in without touching callers.
type Storage interface {
	Save(objectKey string, r io.Reader) (int64, error)
	Open(objectKey string) (io.ReadCloser, error)
	Delete(objectKey string) error
}

var ErrInvalidKey = errors.New("invalid object key")

// LocalStorage keeps blobs under a root directory, fanned out by the first
// two characters of the key to keep directories small.
type LocalStorage struct {
	Root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{Root: root}, nil
}

func (s *LocalStorage) path(objectKey string) (string, error) {
	if objectKey == "" || strings.ContainsAny(objectKey, "/\\.") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.Root, objectKey[:2], objectKey), nil
}

func (s *LocalStorage) Save(objectKey string, r io.Reader) (int64, error) {
	p, err := s.path(objectKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// A half-written blob is useless; remove it.
		_ = os.Remove(p)
		return 0, err
	}
	return n, nil
}

func (s *LocalStorage) Open(objectKey string) (io.ReadCloser, error) {
	p, err := s.path(objectKey)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *LocalStorage) Delete(objectKey string) error {
	p, err := s.path(objectKey)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
