package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type LocalSource struct {
	basePath string
}

func NewLocalSource(basePath string) *LocalSource {
	return &LocalSource{basePath: basePath}
}

func (s *LocalSource) Get(_ context.Context, key string) (Object, error) {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	info, err := os.Stat(path)
	if err != nil {
		return Object{}, localError(key, err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return Object{}, localError(key, err)
	}
	return Object{Body: body, LastModified: info.ModTime()}, nil
}

func (s *LocalSource) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, filepath.FromSlash(prefix)))
	if err != nil {
		return nil, localError(prefix, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func localError(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("reading %s: %w", key, err)
}
