package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// publicPrefix is the URL path under which stored images are served.
const publicPrefix = "/uploads/images/"

// FileStorage persists uploaded image bytes and hands back a public URL.
type FileStorage interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// LocalStorage stores files on the local filesystem under a configured
// directory and exposes them under the public base URL.
type LocalStorage struct {
	uploadDir string
	baseURL   string
}

// Ensure LocalStorage implements FileStorage
var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a local-disk storage rooted at uploadDir.
func NewLocalStorage(uploadDir, baseURL string) *LocalStorage {
	return &LocalStorage{
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// Save writes the upload under a UUID-prefixed name and returns its public URL.
func (s *LocalStorage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	fileName := uuid.New().String() + "-" + filepath.Base(originalName)
	path := filepath.Join(s.uploadDir, fileName)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + publicPrefix + fileName, nil
}

// Delete removes the stored file behind a public URL. Missing files are not
// an error.
func (s *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	idx := strings.LastIndex(fileURL, "/")
	if idx < 0 || idx == len(fileURL)-1 {
		return fmt.Errorf("malformed file url: %s", fileURL)
	}
	fileName := fileURL[idx+1:]
	path := filepath.Join(s.uploadDir, filepath.Base(fileName))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
