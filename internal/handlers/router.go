package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/handlers/middleware"
	"github.com/vnitin08/youtube-backend/internal/handlers/render"
	"github.com/vnitin08/youtube-backend/internal/logger"
	"github.com/vnitin08/youtube-backend/internal/models"
	"github.com/vnitin08/youtube-backend/internal/service/account"
	"github.com/vnitin08/youtube-backend/internal/service/auth"
)

const (
	// Limit for json bodies
	jsonBodyLimit = 20 << 10

	// Limit for multipart bodies with images
	multipartBodyLimit = 10 << 20
)

type Config struct {
	// Directory uploaded files are saved to before they reach media store
	UploadDir string

	// Directory served on /static/
	PublicDir string

	// Origins allowed to call the api from browser
	CORSOrigins []string
}

func NewRouter(
	cfg Config,
	sessions sessionService,
	accounts accountService,
	db pinger,
	logger logger.Logger,
) http.Handler {
	jsonBody := middleware.BodyLimit(jsonBodyLimit)
	multipartBody := middleware.BodyLimit(multipartBodyLimit)
	authRequired := middleware.Auth(sessions)

	r := chi.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Method(http.MethodGet, "/healthz", handleHealth(db, logger))
	if cfg.PublicDir != "" {
		r.Handle("/static/*", noSniff(http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.PublicDir)))))
	}

	r.Route("/api/v1/users", func(users chi.Router) {
		users.With(multipartBody).Method(http.MethodPost, "/register", handleRegister(accounts, cfg.UploadDir, logger))
		users.With(jsonBody).Method(http.MethodPost, "/login", handleLogin(sessions, logger))
		users.With(jsonBody).Method(http.MethodPost, "/refresh-token", handleRefresh(sessions, logger))

		users.Group(func(private chi.Router) {
			private.Use(authRequired)

			private.Method(http.MethodPost, "/logout", handleLogout(sessions, logger))
			private.With(jsonBody).Method(http.MethodPost, "/change-password", handleChangePassword(sessions, logger))
			private.Method(http.MethodGet, "/current-user", handleCurrentUser())
			private.With(jsonBody).Method(http.MethodPatch, "/update-account", handleUpdateAccount(accounts, logger))
			private.With(multipartBody).Method(http.MethodPatch, "/avatar",
				handleImageUpdate("avatar", accounts.UpdateAvatar, cfg.UploadDir, "Avatar image updated successfully", logger))
			private.With(multipartBody).Method(http.MethodPatch, "/cover-image",
				handleImageUpdate("coverImage", accounts.UpdateCoverImage, cfg.UploadDir, "Cover image updated successfully", logger))
			private.Method(http.MethodGet, "/c/{username}", handleChannelProfile(accounts, logger))
			private.Method(http.MethodGet, "/history", handleWatchHistory(accounts, logger))
		})
	})

	return r
}

func handleHealth(db pinger, l logger.Logger) http.Handler {
	type response struct {
		Database string `json:"database"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			l.Error("health check failed", "error", err.Error())
			render.JSON(w, http.StatusServiceUnavailable, response{Database: "unavailable"}, "Service unavailable")
			return
		}
		render.JSON(w, http.StatusOK, response{Database: "ok"}, "OK")
	})
}

// Browsers must take Content-Type of public files as is
func noSniff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// Render error envelope; failures nobody but the server can fix are logged with the cause
func renderError(w http.ResponseWriter, r *http.Request, l logger.Logger, err error) {
	status := render.Error(w, err)
	if status >= http.StatusInternalServerError {
		l.Error("request failed",
			"uri", r.RequestURI,
			"request_id", middleware.RequestID(r.Context()),
			"error", err.Error(),
		)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionService interface {
	// Login by username or email and password
	// Has to return apperrors.ErrNotFound if account not found and apperrors.ErrUnauthenticated on wrong password
	Login(ctx context.Context, username string, email string, password string) (auth.Session, error)

	// Clear stored refresh token
	Logout(ctx context.Context, accountID uuid.UUID) error

	// Rotate tokens using refresh token
	// Has to return apperrors.ErrInvalidToken if token is not the stored one
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword string, newPassword string) error

	// Resolve account by access token
	Authenticate(ctx context.Context, access string) (models.PublicAccount, error)
}

type imageUpdater func(ctx context.Context, accountID uuid.UUID, localPath string) (models.PublicAccount, error)

type accountService interface {
	Register(ctx context.Context, in account.RegisterInput) (models.PublicAccount, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, fullName string, email string) (models.PublicAccount, error)
	UpdateAvatar(ctx context.Context, accountID uuid.UUID, localPath string) (models.PublicAccount, error)
	UpdateCoverImage(ctx context.Context, accountID uuid.UUID, localPath string) (models.PublicAccount, error)
	ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.WatchedVideo, error)
}
