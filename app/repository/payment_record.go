package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

const paymentRecordColumns = `id, payment_id, email, status, amount, payment_method, observed_at, created_at, updated_at`

type PaymentRecordRepository struct {
	db DBTX
}

func NewPaymentRecordRepository(db DBTX) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: db}
}

// Upsert writes the record keyed by payment_id. An existing row has every mutable field
// overwritten (last write wins); created_at is kept from the first insert.
func (r *PaymentRecordRepository) Upsert(ctx context.Context, record *entity.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			payment_id, email, status, amount, payment_method, observed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			status = VALUES(status),
			amount = VALUES(amount),
			payment_method = VALUES(payment_method),
			observed_at = VALUES(observed_at),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.PaymentID,
		record.Email,
		record.Status,
		record.Amount,
		record.PaymentMethod,
		record.ObservedAt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

func (r *PaymentRecordRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	query := `SELECT ` + paymentRecordColumns + ` FROM payment_records WHERE payment_id = ? LIMIT 1`

	record := &entity.PaymentRecord{}
	if err := scanPaymentRecord(r.db.QueryRowContext(ctx, query, paymentID), record); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *PaymentRecordRepository) ListRecent(ctx context.Context, limit, offset int32) ([]*entity.PaymentRecord, error) {
	limit, offset = normalizeLimit(limit, offset, 20)
	query := `SELECT ` + paymentRecordColumns + ` FROM payment_records ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*entity.PaymentRecord, 0)
	for rows.Next() {
		item := &entity.PaymentRecord{}
		if err := scanPaymentRecord(rows, item); err != nil {
			return nil, err
		}
		records = append(records, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func scanPaymentRecord(scan rowScanner, record *entity.PaymentRecord) error {
	return scan.Scan(
		&record.ID,
		&record.PaymentID,
		&record.Email,
		&record.Status,
		&record.Amount,
		&record.PaymentMethod,
		&record.ObservedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
}
