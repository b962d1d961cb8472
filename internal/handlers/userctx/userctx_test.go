package userctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vnitin08/youtube-backend/internal/models"
)

func TestUserCtx(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		require.False(t, ok)
	})

	t.Run("account set", func(t *testing.T) {
		account := models.PublicAccount{ID: uuid.New(), Username: "chai"}

		got, ok := FromContext(New(context.Background(), account))

		require.True(t, ok)
		require.Equal(t, account, got)
	})
}
