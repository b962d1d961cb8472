package models

import (
	"time"

	"github.com/google/uuid"
)

// Account as it stored in the database
// Never render it to the client, use PublicAccount instead
type Account struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	AvatarURL      string
	CoverImageURL  string
	RefreshToken   *string // nil if account has no active session
	WatchHistory   []uuid.UUID
}

// Public returns sanitized projection of the account
func (a Account) Public() PublicAccount {
	history := a.WatchHistory
	if history == nil {
		history = []uuid.UUID{}
	}

	return PublicAccount{
		ID:            a.ID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		Username:      a.Username,
		Email:         a.Email,
		FullName:      a.FullName,
		AvatarURL:     a.AvatarURL,
		CoverImageURL: a.CoverImageURL,
		WatchHistory:  history,
	}
}

// Sanitized account: without password and refresh token
type PublicAccount struct {
	ID            uuid.UUID   `json:"id"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	FullName      string      `json:"fullName"`
	AvatarURL     string      `json:"avatar"`
	CoverImageURL string      `json:"coverImage"`
	WatchHistory  []uuid.UUID `json:"watchHistory"`
}

// Data to create new account with
type NewAccount struct {
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	AvatarURL      string
	CoverImageURL  string
}
