package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
)

// Multipart parts bigger than that are spilled to disk by net/http
const multipartMemory = 1 << 20

// http.DetectContentType looks at 512 bytes at most
const sniffLen = 512

// Accepted image types and extensions stored files get
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Save uploaded image from the form field to dir and return the local path
// Empty path without error if the field is missing
func saveUpload(r *http.Request, field string, dir string) (string, error) {
	file, _, err := r.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("error while reading uploaded file. Err: %w", err)
	}
	defer file.Close() // nolint:errcheck

	// Never trust client file name or content type: extension follows sniffed content
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("error while reading uploaded file. Err: %w", err)
	}
	head = head[:n]

	ext, ok := imageExtensions[http.DetectContentType(head)]
	if !ok {
		return "", apperrors.Validation(fmt.Sprintf("File '%s' must be an image (png, jpeg, gif, webp or bmp)", field))
	}

	path := filepath.Join(dir, uuid.NewString()+ext)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("error while creating temp file. Err: %w", err)
	}

	if _, err := io.Copy(out, io.MultiReader(bytes.NewReader(head), file)); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("error while saving uploaded file. Err: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("error while saving uploaded file. Err: %w", err)
	}

	return path, nil
}

// Remove temp files left after the request. Stores remove them on upload, so most often they are gone already
func cleanupUploads(paths ...string) {
	for _, path := range paths {
		if path != "" {
			_ = os.Remove(path)
		}
	}
}
