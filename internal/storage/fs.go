package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrBadKey = errors.New("invalid blob key")

// FSStore is the offline blob store: objects are plain files under base.
type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create blob dir %s", base)
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) resolve(key string) (string, string, error) {
	clean := path.Clean("/" + key)[1:]
	if key == "" || clean == "" || clean != strings.TrimPrefix(key, "/") {
		return "", "", ErrBadKey
	}
	return clean, filepath.Join(s.base, filepath.FromSlash(clean)), nil
}

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	clean, dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "mkdir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "create temp")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", errors.Wrapf(err, "write %s", clean)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close temp")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", errors.Wrapf(err, "commit %s", clean)
	}
	return clean, nil
}

func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	_, src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(src)
}
