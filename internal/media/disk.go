package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store files in the local directory that is served as static content
// Used when no bucket configured
type DiskStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// dir: directory to store files into
// baseURL: URL the dir is served on, like 'http://localhost:8000/static'
func NewDiskStore(dir string, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error while creating media dir. Err: %w", err)
	}

	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *DiskStore) Upload(_ context.Context, localPath string) (url string, err error) {
	defer func() {
		if rmErr := removeTemp(localPath); rmErr != nil && err == nil {
			err = fmt.Errorf("error while removing temp file. Err: %w", rmErr)
		}
	}()

	key := newKey(localPath, s.now())
	dst := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("error while creating media dir. Err: %w", err)
	}

	if err := copyFile(localPath, dst); err != nil {
		_ = os.Remove(dst)
		return "", err
	}

	return s.baseURL + "/" + key, nil
}

func (s *DiskStore) Remove(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return ErrUnknownURL
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error while removing media file. Err: %w", err)
	}

	return nil
}

// Copy instead of rename: temp dir may be on the other device
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error while opening file to upload. Err: %w", err)
	}
	defer in.Close() // nolint:errcheck

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error while creating media file. Err: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("error while writing media file. Err: %w", err)
	}

	return out.Close()
}
