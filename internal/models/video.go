package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	OwnerID      uuid.UUID
	Title        string
	Description  string
	VideoFileURL string
	ThumbnailURL string
	Duration     time.Duration
	Views        int64
	IsPublished  bool
}

// Public fields of the video owner
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar"`
}

// Video from the watch history with the owner flattened into single object
type WatchedVideo struct {
	ID           uuid.UUID  `json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoFileURL string     `json:"videoFile"`
	ThumbnailURL string     `json:"thumbnail"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	Owner        VideoOwner `json:"owner"`
}
