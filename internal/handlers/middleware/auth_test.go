package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/handlers/userctx"
	"github.com/vnitin08/youtube-backend/internal/models"
)

// Allow to use a function as authenticator
type authFunc func(ctx context.Context, access string) (models.PublicAccount, error)

func (f authFunc) Authenticate(ctx context.Context, access string) (models.PublicAccount, error) {
	return f(ctx, access)
}

func TestAuth(t *testing.T) {
	called := 0

	// Simple handler that try to get account from context
	// If ok write it username to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		// Must always be true cause middleware has to set account to context or write error to response
		account, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(account.Username))
		require.NoError(t, err, "should write username to response")
	})

	t.Run("auth ok", func(t *testing.T) {
		called = 0
		var gotToken string
		middleware := Auth(authFunc(func(_ context.Context, access string) (models.PublicAccount, error) {
			gotToken = access
			return models.PublicAccount{Username: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, "test-user", string(body), "should return username in response")
		require.Equal(t, "cookie-token", gotToken, "cookie takes precedence over header")
		require.Equal(t, 1, called)
	})

	t.Run("auth fail", func(t *testing.T) {
		called = 0
		middleware := Auth(authFunc(func(_ context.Context, _ string) (models.PublicAccount, error) {
			return models.PublicAccount{}, apperrors.Unauthenticated("Unauthorized request")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", string(body))
		require.JSONEq(t,
			`{
				"data": null,
				"status": 401,
				"message": "Unauthorized request",
				"success": false
			}`,
			string(body),
		)
		require.Zero(t, called, "downstream handler must not be called")
	})

	t.Run("storage failure", func(t *testing.T) {
		called = 0
		middleware := Auth(authFunc(func(_ context.Context, _ string) (models.PublicAccount, error) {
			return models.PublicAccount{}, errors.New("connection refused")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Zero(t, called)
	})
}
