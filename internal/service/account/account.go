package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/logger"
	"github.com/vnitin08/youtube-backend/internal/models"
	"github.com/vnitin08/youtube-backend/internal/repository"
	"github.com/vnitin08/youtube-backend/internal/service/auth"
)

// Durable storage for images
type mediaStore interface {
	// Upload local file and return its URL. Local file is removed after the attempt
	Upload(ctx context.Context, localPath string) (string, error)

	// Remove previously uploaded file
	Remove(ctx context.Context, url string) error
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Local paths of uploaded files. Avatar is required, cover image is optional
	AvatarPath     string
	CoverImagePath string
}

type AccountService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
	media   mediaStore
	logger  logger.Logger
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage, media mediaStore, l logger.Logger) *AccountService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &AccountService{
		hasher:  hasher,
		storage: storage,
		media:   media,
		logger:  l.With("service", "account"),
	}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.PublicAccount, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.FullName == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return models.PublicAccount{}, apperrors.Validation("All fields are required")
	}

	// Fast path only: the insert below is what guarantees uniqueness
	exists, err := s.storage.Account().ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return models.PublicAccount{}, fmt.Errorf("error while checking account existence. Err: %w", err)
	}
	if exists {
		return models.PublicAccount{}, apperrors.Conflict("User with email or username already exists")
	}

	if in.AvatarPath == "" {
		return models.PublicAccount{}, apperrors.Validation("Avatar file is required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.PublicAccount{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	avatarURL, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil {
		return models.PublicAccount{}, apperrors.Upload("Error while uploading avatar", err)
	}
	uploaded := []string{avatarURL}

	var coverImageURL string
	if in.CoverImagePath != "" {
		coverImageURL, err = s.media.Upload(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.Warn("cover image not uploaded, registering without it", "error", err.Error())
			coverImageURL = ""
		} else {
			uploaded = append(uploaded, coverImageURL)
		}
	}

	account, err := s.storage.Account().Create(ctx, models.NewAccount{
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hash,
		AvatarURL:      avatarURL,
		CoverImageURL:  coverImageURL,
	})
	switch {
	case errors.Is(err, apperrors.ErrAccountAlreadyExists):
		s.removeMedia(ctx, uploaded...)
		return models.PublicAccount{}, apperrors.Conflict("User with email or username already exists")
	case err != nil:
		s.removeMedia(ctx, uploaded...)
		return models.PublicAccount{}, apperrors.Persistence("Something went wrong while registering the user", err)
	}

	public, err := s.storage.Account().GetPublicByID(ctx, account.ID)
	if err != nil {
		return models.PublicAccount{}, apperrors.Persistence("Something went wrong while registering the user", err)
	}

	return public, nil
}

func (s *AccountService) Profile(ctx context.Context, accountID uuid.UUID) (models.PublicAccount, error) {
	account, err := s.storage.Account().GetPublicByID(ctx, accountID)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return account, apperrors.NotFound("User does not exist")
	case err != nil:
		return account, fmt.Errorf("error while loading account. Err: %w", err)
	}
	return account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, fullName string, email string) (models.PublicAccount, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return models.PublicAccount{}, apperrors.Validation("All fields are required")
	}

	account, err := s.storage.Account().UpdateProfile(ctx, accountID, fullName, email)
	switch {
	case errors.Is(err, apperrors.ErrAccountAlreadyExists):
		return account, apperrors.Conflict("Email is already taken")
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return account, apperrors.NotFound("User does not exist")
	case err != nil:
		return account, apperrors.Persistence("Error while updating account details", err)
	}
	return account, nil
}

func (s *AccountService) UpdateAvatar(ctx context.Context, accountID uuid.UUID, localPath string) (models.PublicAccount, error) {
	return s.replaceImage(ctx, accountID, localPath, "Avatar", repository.AccountRepo.SetAvatar,
		func(a models.PublicAccount) string { return a.AvatarURL })
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, accountID uuid.UUID, localPath string) (models.PublicAccount, error) {
	return s.replaceImage(ctx, accountID, localPath, "Cover image", repository.AccountRepo.SetCoverImage,
		func(a models.PublicAccount) string { return a.CoverImageURL })
}

type setImageFunc func(repo repository.AccountRepo, ctx context.Context, id uuid.UUID, url string) (models.PublicAccount, error)

// Upload new image, store its url and drop the previous one
func (s *AccountService) replaceImage(
	ctx context.Context,
	accountID uuid.UUID,
	localPath string,
	name string,
	set setImageFunc,
	current func(models.PublicAccount) string,
) (models.PublicAccount, error) {
	if localPath == "" {
		return models.PublicAccount{}, apperrors.Validation(name + " file is missing")
	}

	before, err := s.Profile(ctx, accountID)
	if err != nil {
		return before, err
	}

	url, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return models.PublicAccount{}, apperrors.Upload("Error while uploading "+strings.ToLower(name), err)
	}

	after, err := set(s.storage.Account(), ctx, accountID, url)
	if err != nil {
		s.removeMedia(ctx, url)
		return models.PublicAccount{}, apperrors.Persistence("Error while updating "+strings.ToLower(name), err)
	}

	if old := current(before); old != "" && old != url {
		s.removeMedia(ctx, old)
	}

	return after, nil
}

func (s *AccountService) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.ChannelProfile{}, apperrors.Validation("Username is missing")
	}

	profile, err := s.storage.Query().ChannelProfile(ctx, username, viewerID)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return profile, apperrors.NotFound("Channel does not exist")
	case err != nil:
		return profile, fmt.Errorf("error while loading channel profile. Err: %w", err)
	}
	return profile, nil
}

func (s *AccountService) WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.WatchedVideo, error) {
	videos, err := s.storage.Query().WatchHistory(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error while loading watch history. Err: %w", err)
	}
	if videos == nil {
		videos = []models.WatchedVideo{}
	}
	return videos, nil
}

// Best effort: account state is already decided, failure only leaves garbage in the store
func (s *AccountService) removeMedia(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if err := s.media.Remove(ctx, url); err != nil {
			s.logger.Warn("media not removed", "url", url, "error", err.Error())
		}
	}
}
