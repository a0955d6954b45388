// Package files provides the PostgreSQL-backed repository for attached-file
// metadata. The encrypted blob itself lives in object storage; these rows
// carry encrypted name/type plus the blob nonce.
package files

import (
	"context"
	"fmt"

	"github.com/dkolesni/timecapsule/internal/dbx"
	"github.com/dkolesni/timecapsule/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO capsule_files (id, capsule_id, user_id, file_path,
			name_encrypted, name_iv, type_encrypted, type_iv, file_iv, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.CapsuleID, file.UserID, file.FilePath,
		file.NameEncrypted, file.NameIV, file.TypeEncrypted, file.TypeIV,
		file.FileIV, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectByCapsule(ctx context.Context, capsuleID string, userID string) ([]*models.File, error) {
	query := `
		SELECT id, capsule_id, user_id, file_path,
			name_encrypted, name_iv, type_encrypted, type_iv, file_iv, created_at
		FROM capsule_files
		WHERE capsule_id = $1 AND user_id = $2
	`
	rows, err := r.db.QueryContext(ctx, query, capsuleID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(
			&item.ID, &item.CapsuleID, &item.UserID, &item.FilePath,
			&item.NameEncrypted, &item.NameIV, &item.TypeEncrypted, &item.TypeIV,
			&item.FileIV, &item.CreatedAt,
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
