package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/models"
)

type QueryRepo struct {
	DB DBTX
}

// Stages: match channel, join edges in both directions, derive counters and viewer flag, project public fields
const channelProfile = `-- name: ChannelProfile
WITH channel AS (
    SELECT id, username, email, full_name, avatar_url, cover_image_url
    FROM accounts
    WHERE username = $1
),
subscribers AS (
    SELECT s.subscriber_id
    FROM subscriptions s
    JOIN channel c ON s.channel_id = c.id
),
subscribed_to AS (
    SELECT s.channel_id
    FROM subscriptions s
    JOIN channel c ON s.subscriber_id = c.id
)
SELECT
    c.id,
    c.username,
    c.email,
    c.full_name,
    c.avatar_url,
    c.cover_image_url,
    (SELECT count(*) FROM subscribers) AS subscribers_count,
    (SELECT count(*) FROM subscribed_to) AS channels_subscribed_to_count,
    EXISTS (SELECT 1 FROM subscribers WHERE subscriber_id = $2) AS is_subscribed
FROM channel c
`

func (r *QueryRepo) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	rows, _ := r.DB.Query(ctx, channelProfile, strings.ToLower(username), viewerID)
	profile, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.ChannelProfile, error) {
		var p models.ChannelProfile
		err := row.Scan(
			&p.ID,
			&p.Username,
			&p.Email,
			&p.FullName,
			&p.AvatarURL,
			&p.CoverImageURL,
			&p.SubscribersCount,
			&p.ChannelsSubscribedToCount,
			&p.IsSubscribed,
		)
		return p, err
	})
	return profile, notFoundOr(err, apperrors.ErrAccountNotFound)
}

// Keeps watch order; videos or owners that do not exist anymore are skipped
const watchHistory = `-- name: WatchHistory
SELECT
    v.id,
    v.created_at,
    v.title,
    v.description,
    v.video_file_url,
    v.thumbnail_url,
    v.duration_seconds,
    v.views,
    o.full_name,
    o.username,
    o.avatar_url
FROM accounts a
CROSS JOIN LATERAL unnest(a.watch_history) WITH ORDINALITY AS h(video_id, position)
JOIN videos v ON v.id = h.video_id
JOIN accounts o ON o.id = v.owner_id
WHERE a.id = $1
ORDER BY h.position
`

func (r *QueryRepo) WatchHistory(ctx context.Context, accountID uuid.UUID) ([]models.WatchedVideo, error) {
	rows, _ := r.DB.Query(ctx, watchHistory, accountID)
	videos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WatchedVideo, error) {
		var v models.WatchedVideo
		err := row.Scan(
			&v.ID,
			&v.CreatedAt,
			&v.Title,
			&v.Description,
			&v.VideoFileURL,
			&v.ThumbnailURL,
			&v.Duration,
			&v.Views,
			&v.Owner.FullName,
			&v.Owner.Username,
			&v.Owner.AvatarURL,
		)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}
