package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/models"
)

// Account repository interface
type AccountRepo interface {
	// Create account in one statement
	// If account with the same username or email exists already has to return apperrors.ErrAccountAlreadyExists
	Create(ctx context.Context, account models.NewAccount) (models.Account, error)

	// Get account with all the fields or public projection only
	// If account not found must return apperrors.ErrAccountNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Account, error)
	GetPublicByID(ctx context.Context, id uuid.UUID) (models.PublicAccount, error)

	// Get account matching username or email (any of them may be empty)
	// If account not found must return apperrors.ErrAccountNotFound
	GetByUsernameOrEmail(ctx context.Context, username string, email string) (models.Account, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)

	// Store the single active refresh token or clear it
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error

	// Update fields and return public projection of the updated account
	// If account not found must return apperrors.ErrAccountNotFound
	SetPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, email string) (models.PublicAccount, error)
	SetAvatar(ctx context.Context, id uuid.UUID, url string) (models.PublicAccount, error)
	SetCoverImage(ctx context.Context, id uuid.UUID, url string) (models.PublicAccount, error)

	// Push video to the end of watch history
	AppendWatchHistory(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error
}

// Subscription edges are managed by other service; repo used to seed and clean up them
type SubscriptionRepo interface {
	Create(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (models.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VideoRepo interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Video, error)
}

// Read only queries that join accounts, subscriptions and videos
type QueryRepo interface {
	// Profile of the channel with subscription counters relative to the viewer
	// If channel not found must return apperrors.ErrAccountNotFound
	ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)

	// Videos from account watch history in watch order with owners resolved
	// Empty history is not an error
	WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.WatchedVideo, error)
}

type Storage interface {
	Account() AccountRepo
	Subscription() SubscriptionRepo
	Video() VideoRepo
	Query() QueryRepo

	// Run fn in transaction: commit if fn succeed, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
