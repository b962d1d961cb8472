package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vnitin08/youtube-backend/internal/handlers/authcookie"
	"github.com/vnitin08/youtube-backend/internal/handlers/render"
	"github.com/vnitin08/youtube-backend/internal/handlers/userctx"
	"github.com/vnitin08/youtube-backend/internal/logger"
	"github.com/vnitin08/youtube-backend/internal/models"
)

type tokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func handleLogin(sessions sessionService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email" validate:"omitempty,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		User models.PublicAccount `json:"user"`
		tokensResponse
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		session, err := sessions.Login(r.Context(), data.Username, data.Email, data.Password)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		authcookie.Set(w, session.Tokens)
		render.JSON(w, http.StatusOK, response{
			User: session.Account,
			tokensResponse: tokensResponse{
				AccessToken:  session.Tokens.Access.Value,
				RefreshToken: session.Tokens.Refresh.Value,
			},
		}, "User logged in successfully")
	})
}

func handleLogout(sessions sessionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, _ := userctx.FromContext(r.Context())

		if err := sessions.Logout(r.Context(), account.ID); err != nil {
			renderError(w, r, l, err)
			return
		}

		authcookie.Clear(w)
		render.JSON(w, http.StatusOK, struct{}{}, "User logged out")
	})
}

func handleRefresh(sessions sessionService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Cookie takes precedence; body is optional for cookie clients
		refresh := authcookie.Refresh(r)
		if refresh == "" {
			var data request
			err := json.NewDecoder(r.Body).Decode(&data)
			if err != nil && !errors.Is(err, io.EOF) {
				render.DecodeError(w, err)
				return
			}
			refresh = data.RefreshToken
		}

		pair, err := sessions.Refresh(r.Context(), refresh)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		authcookie.Set(w, pair)
		render.JSON(w, http.StatusOK, tokensResponse{
			AccessToken:  pair.Access.Value,
			RefreshToken: pair.Refresh.Value,
		}, "Access token refreshed")
	})
}

func handleChangePassword(sessions sessionService, l logger.Logger) http.Handler {
	type request struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		account, _ := userctx.FromContext(r.Context())
		err = sessions.ChangePassword(r.Context(), account.ID, data.OldPassword, data.NewPassword)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusOK, struct{}{}, "Password changed successfully")
	})
}
