package main

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_writeSecrets(t *testing.T) {
	t.Run("two distinct secrets", func(t *testing.T) {
		var out bytes.Buffer

		err := writeSecrets(&out, rand.Reader)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)

		access, ok := strings.CutPrefix(lines[0], "ACCESS_TOKEN_SECRET=")
		require.True(t, ok, "first line should hold access secret")
		refresh, ok := strings.CutPrefix(lines[1], "REFRESH_TOKEN_SECRET=")
		require.True(t, ok, "second line should hold refresh secret")

		assert.Len(t, access, SecretKeyBytesLen*2)
		assert.Len(t, refresh, SecretKeyBytesLen*2)
		assert.NotEqual(t, access, refresh)
	})

	t.Run("short random source", func(t *testing.T) {
		var out bytes.Buffer

		err := writeSecrets(&out, bytes.NewReader([]byte{1, 2, 3}))

		require.Error(t, err)
	})
}
