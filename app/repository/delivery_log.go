package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

type DeliveryLogRepository struct {
	db DBTX
}

func NewDeliveryLogRepository(db DBTX) *DeliveryLogRepository {
	return &DeliveryLogRepository{db: db}
}

// Create appends an entry. The table has no update or delete path.
func (r *DeliveryLogRepository) Create(ctx context.Context, entry *entity.DeliveryLog) error {
	query := `
		INSERT INTO delivery_logs (
			user_id, webhook_url, event_type, payload_json, response_status, response_body, success, source, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.UserID,
		entry.WebhookURL,
		entry.EventType,
		entry.PayloadJSON,
		nullableInt32Value(entry.ResponseStatus),
		nullableStringValue(entry.ResponseBody),
		entry.Success,
		entry.Source,
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = uint64(id)

	return nil
}

func (r *DeliveryLogRepository) ListByUser(ctx context.Context, userID string, limit int32) ([]*entity.DeliveryLog, error) {
	limit, _ = normalizeLimit(limit, 0, 10)
	query := `
		SELECT id, user_id, webhook_url, event_type, payload_json, response_status, response_body, success, source, created_at
		FROM delivery_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*entity.DeliveryLog, 0)
	for rows.Next() {
		item, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func scanDeliveryLog(scan rowScanner) (*entity.DeliveryLog, error) {
	var responseStatus sql.NullInt32
	var responseBody sql.NullString

	item := &entity.DeliveryLog{}
	err := scan.Scan(
		&item.ID,
		&item.UserID,
		&item.WebhookURL,
		&item.EventType,
		&item.PayloadJSON,
		&responseStatus,
		&responseBody,
		&item.Success,
		&item.Source,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ResponseStatus = int32PtrFromNull(responseStatus)
	item.ResponseBody = stringPtrFromNull(responseBody)

	return item, nil
}
