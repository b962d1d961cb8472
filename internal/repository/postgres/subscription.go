package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vnitin08/youtube-backend/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const createSubscription = `-- name: CreateSubscription
INSERT INTO subscriptions (id, subscriber_id, channel_id)
VALUES ($1, $2, $3)
RETURNING id, subscriber_id, channel_id
`

func (r *SubscriptionRepo) Create(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, createSubscription, uuid.New(), subscriberID, channelID)
	s, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Subscription, error) {
		var s models.Subscription
		err := row.Scan(&s.ID, &s.SubscriberID, &s.ChannelID)
		return s, err
	})
	if err != nil {
		return s, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

const deleteSubscription = `-- name: DeleteSubscription
DELETE FROM subscriptions
WHERE id = $1
`

func (r *SubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.DB.Exec(ctx, deleteSubscription, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
