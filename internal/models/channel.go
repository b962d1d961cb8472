package models

import (
	"github.com/google/uuid"
)

// Channel profile as seen by the viewer
type ChannelProfile struct {
	ID                        uuid.UUID `json:"id"`
	Username                  string    `json:"username"`
	Email                     string    `json:"email"`
	FullName                  string    `json:"fullName"`
	AvatarURL                 string    `json:"avatar"`
	CoverImageURL             string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
}

// Directed edge: subscriber follows channel
type Subscription struct {
	ID           uuid.UUID `json:"id"`
	SubscriberID uuid.UUID `json:"subscriber"`
	ChannelID    uuid.UUID `json:"channel"`
}
