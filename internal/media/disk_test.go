package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vnitin08/youtube-backend/internal/testutil"
)

func TestDiskStore(t *testing.T) {
	newStore := func(t *testing.T) (*DiskStore, string) {
		dir := t.TempDir()
		s, err := NewDiskStore(dir, "http://localhost:8000/static/")
		require.NoError(t, err)
		return s, dir
	}

	t.Run("upload ok", func(t *testing.T) {
		s, dir := newStore(t)
		path := testutil.TempFile(t, "avatar.png", "png-bytes")

		url, err := s.Upload(t.Context(), path)

		require.NoError(t, err)
		require.True(t, strings.HasPrefix(url, "http://localhost:8000/static/media/"), "unexpected url %s", url)
		require.NoFileExists(t, path, "temp file has to be removed after upload")

		stored := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "http://localhost:8000/static/")))
		content, err := os.ReadFile(stored)
		require.NoError(t, err)
		require.Equal(t, "png-bytes", string(content))
	})

	t.Run("upload not existed file", func(t *testing.T) {
		s, _ := newStore(t)

		_, err := s.Upload(t.Context(), filepath.Join(t.TempDir(), "missing.png"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("remove", func(t *testing.T) {
		s, dir := newStore(t)
		url, err := s.Upload(t.Context(), testutil.TempFile(t, "cover.jpg", "jpg"))
		require.NoError(t, err)

		err = s.Remove(t.Context(), url)

		require.NoError(t, err)
		stored := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "http://localhost:8000/static/")))
		require.NoFileExists(t, stored)
	})

	t.Run("remove foreign or malicious url", func(t *testing.T) {
		s, _ := newStore(t)

		for _, url := range []string{
			"https://cdn.example.com/media/x.png",
			"http://localhost:8000/static/../../etc/passwd",
			"http://localhost:8000/static/",
		} {
			require.ErrorIs(t, s.Remove(t.Context(), url), ErrUnknownURL, url)
		}
	})
}
