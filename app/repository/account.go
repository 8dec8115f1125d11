package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

// AccountRepository reads the platform account directory (profiles table).
type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByEmail is an exact match; the email column uses a binary collation.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}

	query := `SELECT id, email, is_premium FROM profiles WHERE email = ? LIMIT 1`

	item := &entity.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&item.ID, &item.Email, &item.IsPremium)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *AccountRepository) SetPremium(ctx context.Context, accountID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_premium = 1 WHERE id = ?`, accountID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when the flag is already set, so only a missing row is an error.
	if affected == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, accountID).Scan(&exists)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	return nil
}
