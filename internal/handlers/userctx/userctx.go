package userctx

import (
	"context"

	"github.com/vnitin08/youtube-backend/internal/models"
)

type ctxKey string

const accountKey ctxKey = "account"

// Create a new context with the authenticated account
func New(ctx context.Context, a models.PublicAccount) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// Extract the authenticated account from the context
func FromContext(ctx context.Context) (models.PublicAccount, bool) {
	a, ok := ctx.Value(accountKey).(models.PublicAccount)
	return a, ok
}
