package filesystem

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"genmock-studio/core"

	"github.com/sirupsen/logrus"
)

type fsKV struct {
	basePath string
}

// NewKV creates a new filesystem-backed key-value store with one file per key.
func NewKV(basePath string) *fsKV {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsKV{basePath: basePath}
}

func (s *fsKV) filePath(key string) (string, error) {
	// Keys are simple names, never paths.
	if key == "" || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.basePath, key+".json"), nil
}

func (s *fsKV) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.filePath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		logrus.WithField("key", key).WithError(err).Error("Failed to read value")
		return nil, err
	}
	return data, nil
}

func (s *fsKV) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.filePath(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, value, 0644); err != nil {
		logrus.WithField("key", key).WithError(err).Error("Failed to write value")
		return err
	}
	return nil
}

func (s *fsKV) Delete(ctx context.Context, key string) error {
	path, err := s.filePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithField("key", key).WithError(err).Error("Failed to delete value")
		return err
	}
	return nil
}

func (s *fsKV) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		keys = append(keys, entry.Name()[:len(entry.Name())-len(".json")])
	}
	return keys, nil
}
