package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps each key in its own file under basePath
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	return &LocalStorage{basePath: abs}, nil
}

// path maps key to a file inside basePath
func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	fullPath := filepath.Join(s.basePath, key+".json")

	// Security check
	if !strings.HasPrefix(fullPath, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return fullPath, nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes to a temp file and renames it, so readers never see a partial blob
func (s *LocalStorage) Put(ctx context.Context, key string, value []byte) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
