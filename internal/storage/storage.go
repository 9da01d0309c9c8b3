package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bilgisen/haxsite/internal/utils"
)

// Publisher stores rendered exports under a slash separated key and returns
// where they ended up.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// ExportKey is the key prefix under which the export of sourceURL lives.
func ExportKey(sourceURL, name string) string {
	return path.Join("sites", utils.Hash(sourceURL), name)
}

// LocalStorage writes exports below a base directory.
type LocalStorage struct {
	basePath string
	mu       sync.Mutex
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Publish writes body to basePath/key, replacing any previous export.
func (s *LocalStorage) Publish(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	clean := path.Clean("/" + key)
	if clean == "/" || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("invalid export key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(s.basePath, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	// Write next to the target and rename so readers never see half a file.
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to move export file into place: %w", err)
	}

	return filePath, nil
}

// MultiPublisher publishes to every target in order and stops at the first failure.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	var locations []string
	for _, p := range m {
		loc, err := p.Publish(ctx, key, body, contentType)
		if err != nil {
			return strings.Join(locations, ", "), err
		}
		locations = append(locations, loc)
	}
	return strings.Join(locations, ", "), nil
}
