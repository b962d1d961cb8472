// Package media stores uploaded images and returns durable URLs to them.
//
// Uploads always start from a file the HTTP layer saved to a local temp directory.
// Stores remove that file once the upload attempt is finished, whatever the outcome.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownURL = errors.New("url does not belong to the store")

// Unique object key like 'media/2025/1/31/<uuid>.png'
func newKey(localPath string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("media/%d/%d/%d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// Remove temp file; it's ok if it is gone already
func removeTemp(localPath string) error {
	err := os.Remove(localPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
