// Package capsules provides the PostgreSQL-backed repository for capsule
// records. Rows hold ciphertext and nonces only; the plaintext columns
// (unlock_date, created_at, is_unlocked, capsule_type) exist for querying
// and unlock bookkeeping.
package capsules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/dbx"
	"github.com/dkolesni/timecapsule/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, capsule *models.Capsule) error {
	query := `
		INSERT INTO capsules (id, user_id, title_encrypted, title_iv, content_encrypted, content_iv,
			unlock_date, created_at, is_unlocked, capsule_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		capsule.ID, capsule.UserID,
		capsule.TitleEncrypted, capsule.TitleIV,
		capsule.ContentEncrypted, capsule.ContentIV,
		capsule.UnlockDate, capsule.CreatedAt, capsule.IsUnlocked, capsule.CapsuleType)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SelectByUser returns all capsules owned by userID, newest first.
func (r *PostgresRepository) SelectByUser(ctx context.Context, userID string) ([]*models.Capsule, error) {
	query := `
		SELECT id, user_id, title_encrypted, title_iv, content_encrypted, content_iv,
			unlock_date, created_at, is_unlocked, capsule_type
		FROM capsules
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select capsules: %w", err)
	}
	defer rows.Close()

	var result []*models.Capsule
	for rows.Next() {
		var item models.Capsule
		if err := rows.Scan(
			&item.ID, &item.UserID,
			&item.TitleEncrypted, &item.TitleIV,
			&item.ContentEncrypted, &item.ContentIV,
			&item.UnlockDate, &item.CreatedAt, &item.IsUnlocked, &item.CapsuleType,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Capsule, error) {
	query := `
		SELECT id, user_id, title_encrypted, title_iv, content_encrypted, content_iv,
			unlock_date, created_at, is_unlocked, capsule_type
		FROM capsules
		WHERE id = $1
	`
	item := &models.Capsule{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID,
		&item.TitleEncrypted, &item.TitleIV,
		&item.ContentEncrypted, &item.ContentIV,
		&item.UnlockDate, &item.CreatedAt, &item.IsUnlocked, &item.CapsuleType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// MarkUnlocked sets is_unlocked for the owner's capsule. The flag only ever
// goes from false to true; repeating the call is a no-op.
func (r *PostgresRepository) MarkUnlocked(ctx context.Context, id string, userID string) error {
	query := `
		UPDATE capsules SET is_unlocked = true
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
