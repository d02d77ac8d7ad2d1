package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files below root and exposes them under publicPath,
// e.g. root "./storage/public" served at "/storage".
type LocalStorage struct {
	root       string
	publicPath string
}

func NewLocalStorage(root, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &LocalStorage{
		root:       abs,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

func (s *LocalStorage) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return s.publicPath + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStorage) Delete(_ context.Context, url string) error {
	if !s.Owns(url) {
		return nil
	}
	path, err := s.resolve(strings.TrimPrefix(url, s.publicPath+"/"))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Owns(url string) bool {
	return strings.HasPrefix(url, s.publicPath+"/")
}

// resolve maps a key to a path and refuses keys escaping the root.
func (s *LocalStorage) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if path == s.root || !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}
