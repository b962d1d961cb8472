package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/models"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `id, created_at, owner_id, title, description, video_file_url, thumbnail_url, duration_seconds, views, is_published`

const createVideo = `-- name: CreateVideo
INSERT INTO videos (id, owner_id, title, description, video_file_url, thumbnail_url, duration_seconds, views, is_published)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + videoColumns

func (r *VideoRepo) Create(ctx context.Context, v models.Video) (models.Video, error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createVideo,
		v.ID,
		v.OwnerID,
		v.Title,
		v.Description,
		v.VideoFileURL,
		v.ThumbnailURL,
		v.Duration.Seconds(),
		v.Views,
		v.IsPublished,
	)
	video, err := pgx.CollectOneRow(rows, rowToVideo)
	if err != nil {
		return video, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}

const getVideoByID = `-- name: GetVideoByID
SELECT ` + videoColumns + ` FROM videos
WHERE id = $1
`

func (r *VideoRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, getVideoByID, id)
	video, err := pgx.CollectOneRow(rows, rowToVideo)
	return video, notFoundOr(err, apperrors.ErrVideoNotFound)
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	var seconds float64
	err := row.Scan(
		&v.ID,
		&v.CreatedAt,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoFileURL,
		&v.ThumbnailURL,
		&seconds,
		&v.Views,
		&v.IsPublished,
	)
	v.Duration = time.Duration(seconds * float64(time.Second))
	return v, err
}
