package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/handlers/render"
	"github.com/vnitin08/youtube-backend/internal/handlers/userctx"
	"github.com/vnitin08/youtube-backend/internal/logger"
	"github.com/vnitin08/youtube-backend/internal/service/account"
)

func handleRegister(accounts accountService, uploadDir string, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}
		defer r.MultipartForm.RemoveAll() // nolint:errcheck

		avatar, err := saveUpload(r, "avatar", uploadDir)
		if err != nil {
			renderError(w, r, l, err)
			return
		}
		cover, err := saveUpload(r, "coverImage", uploadDir)
		if err != nil {
			cleanupUploads(avatar)
			renderError(w, r, l, err)
			return
		}
		defer cleanupUploads(avatar, cover)

		created, err := accounts.Register(r.Context(), account.RegisterInput{
			FullName:       r.FormValue("fullName"),
			Email:          r.FormValue("email"),
			Username:       r.FormValue("username"),
			Password:       r.FormValue("password"),
			AvatarPath:     avatar,
			CoverImagePath: cover,
		})
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusCreated, created, "User registered successfully")
	})
}

func handleCurrentUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, _ := userctx.FromContext(r.Context())
		render.JSON(w, http.StatusOK, account, "User fetched successfully")
	})
}

func handleUpdateAccount(accounts accountService, l logger.Logger) http.Handler {
	type request struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		current, _ := userctx.FromContext(r.Context())
		updated, err := accounts.UpdateProfile(r.Context(), current.ID, data.FullName, data.Email)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusOK, updated, "Account details updated successfully")
	})
}

// Avatar and cover image are replaced the same way, only the form field and service call differ
func handleImageUpdate(field string, update imageUpdater, uploadDir string, message string, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}
		defer r.MultipartForm.RemoveAll() // nolint:errcheck

		path, err := saveUpload(r, field, uploadDir)
		if err != nil {
			renderError(w, r, l, err)
			return
		}
		defer cleanupUploads(path)

		current, _ := userctx.FromContext(r.Context())
		updated, err := update(r.Context(), current.ID, path)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusOK, updated, message)
	})
}

func handleChannelProfile(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		profile, err := accounts.ChannelProfile(r.Context(), chi.URLParam(r, "username"), viewer.ID)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusOK, profile, "User channel fetched successfully")
	})
}

func handleWatchHistory(accounts accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, _ := userctx.FromContext(r.Context())

		videos, err := accounts.WatchHistory(r.Context(), viewer.ID)
		if err != nil {
			renderError(w, r, l, err)
			return
		}

		render.JSON(w, http.StatusOK, videos, "Watch history fetched successfully")
	})
}

// Parse multipart form or render error. Returns false if response is written already
func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(multipartMemory)
	var sizeErr *http.MaxBytesError
	switch {
	case err == nil:
		return true
	case errors.As(err, &sizeErr):
		render.DecodeError(w, err)
	default:
		render.Error(w, apperrors.Validation("Request must be multipart form"))
	}
	return false
}
