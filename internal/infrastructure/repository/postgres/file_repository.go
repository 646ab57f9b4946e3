package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS file_uploads (
	id BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_key TEXT NOT NULL DEFAULT '',
	row_count INT NOT NULL DEFAULT 0,
	has_errors BOOLEAN NOT NULL DEFAULT FALSE,
	error_count INT NOT NULL DEFAULT 0,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS file_rows (
	id BIGSERIAL PRIMARY KEY,
	file_id BIGINT NOT NULL REFERENCES file_uploads(id) ON DELETE CASCADE,
	row_data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS file_validation_errors (
	id BIGSERIAL PRIMARY KEY,
	file_id BIGINT NOT NULL REFERENCES file_uploads(id) ON DELETE CASCADE,
	error_type TEXT NOT NULL,
	field_name TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL,
	row_number INT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_file_rows_file_id ON file_rows(file_id);
CREATE INDEX IF NOT EXISTS idx_file_validation_errors_file_id ON file_validation_errors(file_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// SaveFileData stores the upload metadata, the accepted rows, and the
// validation errors in one transaction and returns the new file id.
func (r *FileRepository) SaveFileData(ctx context.Context, meta *domain.FileUpload, rows []map[string]string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var fileID int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO file_uploads (filename, storage_key, row_count, has_errors, error_count, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, meta.Filename, meta.StorageKey, len(rows), len(meta.ValidationErrors) > 0,
		len(meta.ValidationErrors), meta.UploadedAt).Scan(&fileID)
	if err != nil {
		return 0, fmt.Errorf("insert file upload: %w", err)
	}

	for _, row := range rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("marshal row data: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO file_rows (file_id, row_data) VALUES ($1,$2)
`, fileID, rowJSON); err != nil {
			return 0, fmt.Errorf("insert file row: %w", err)
		}
	}

	for _, rowErr := range meta.ValidationErrors {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO file_validation_errors (file_id, error_type, field_name, error_message, row_number)
VALUES ($1,$2,$3,$4,$5)
`, fileID, rowErr.Type, rowErr.Field, rowErr.Message, rowErr.Row); err != nil {
			return 0, fmt.Errorf("insert validation error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return fileID, nil
}

func (r *FileRepository) GetFileMetadata(ctx context.Context, id int64) (*domain.FileUpload, error) {
	var meta domain.FileUpload
	err := r.db.QueryRowContext(ctx, `
SELECT id, filename, storage_key, row_count, error_count, uploaded_at
FROM file_uploads
WHERE id = $1
`, id).Scan(&meta.ID, &meta.Filename, &meta.StorageKey, &meta.RowCount, &meta.ErrorCount, &meta.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFileNotFound, "get file", fmt.Errorf("id %d", id))
		}
		return nil, fmt.Errorf("scan file upload: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT error_type, field_name, error_message, row_number
FROM file_validation_errors
WHERE file_id = $1
ORDER BY id
`, id)
	if err != nil {
		return nil, fmt.Errorf("query validation errors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowErr domain.RowError
		if err := rows.Scan(&rowErr.Type, &rowErr.Field, &rowErr.Message, &rowErr.Row); err != nil {
			return nil, fmt.Errorf("scan validation error: %w", err)
		}
		meta.ValidationErrors = append(meta.ValidationErrors, rowErr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validation errors: %w", err)
	}
	return &meta, nil
}
