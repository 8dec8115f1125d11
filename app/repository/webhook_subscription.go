package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

type WebhookSubscriptionRepository struct {
	db DBTX
}

func NewWebhookSubscriptionRepository(db DBTX) *WebhookSubscriptionRepository {
	return &WebhookSubscriptionRepository{db: db}
}

func (r *WebhookSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*entity.WebhookSubscription, error) {
	query := `
		SELECT id, user_id, webhook_url, is_active, created_at, updated_at
		FROM webhook_subscriptions
		WHERE user_id = ?
		LIMIT 1
	`

	item := &entity.WebhookSubscription{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&item.ID,
		&item.UserID,
		&item.WebhookURL,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Upsert keeps at most one subscription per user.
func (r *WebhookSubscriptionRepository) Upsert(ctx context.Context, subscription *entity.WebhookSubscription) error {
	query := `
		INSERT INTO webhook_subscriptions (user_id, webhook_url, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			webhook_url = VALUES(webhook_url),
			is_active = VALUES(is_active),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.WebhookURL,
		subscription.IsActive,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	return err
}
