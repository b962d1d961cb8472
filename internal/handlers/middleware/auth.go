package middleware

import (
	"context"
	"net/http"

	"github.com/vnitin08/youtube-backend/internal/handlers/authcookie"
	"github.com/vnitin08/youtube-backend/internal/handlers/render"
	"github.com/vnitin08/youtube-backend/internal/handlers/userctx"
	"github.com/vnitin08/youtube-backend/internal/models"
)

type authenticator interface {
	// Resolve account by access token
	// Has to return apperrors.ErrUnauthenticated if token is missing, invalid or account is gone
	Authenticate(ctx context.Context, access string) (models.PublicAccount, error)
}

// Authorization gate: resolve account by access token and put it to the request context
// Downstream handler is never called if account not resolved
func Auth(a authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := a.Authenticate(r.Context(), authcookie.Access(r))
			if err != nil {
				render.Error(w, err)
				return
			}
			ctx := userctx.New(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
