package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	classification TEXT NOT NULL DEFAULT '',
	fired_rule INT NOT NULL DEFAULT 0,
	score INT NOT NULL DEFAULT 0,
	matched_keywords JSONB NOT NULL DEFAULT '{}'::jsonb,
	description TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_classification ON documents(classification);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	keywordsJSON, err := json.Marshal(doc.MatchedKeywords)
	if err != nil {
		return fmt.Errorf("marshal matched keywords: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, mime_type, storage_path, classification, fired_rule, score,
	matched_keywords, description, summary, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, string(doc.Classification),
		doc.FiredRule, doc.Score, keywordsJSON, doc.Description, doc.Summary,
		string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, mime_type, storage_path, classification, fired_rule, score,
	matched_keywords, description, summary, status, error_message, created_at, updated_at`

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.Document, int, error) {
	where, args := buildHistoryWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM documents` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	limit := filter.PageSize
	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`
SELECT `+documentColumns+`
FROM documents%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d
`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, total, nil
}

func buildHistoryWhere(filter domain.HistoryFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Classification != "" {
		add("classification = $%d", string(filter.Classification))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.FilenameQuery != "" {
		add("filename ILIKE $%d", "%"+filter.FilenameQuery+"%")
	}
	if !filter.DateFrom.IsZero() {
		add("created_at >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		add("created_at <= $%d", filter.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return notFoundIfZeroRows(res, id)
}

func (r *DocumentRepository) SaveClassification(ctx context.Context, id string, result domain.ClassificationResult, description, summary string) error {
	keywordsJSON, err := json.Marshal(result.MatchedKeywords)
	if err != nil {
		return fmt.Errorf("marshal matched keywords: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET classification = $2, fired_rule = $3, score = $4, matched_keywords = $5,
	description = $6, summary = $7, updated_at = $8
WHERE id = $1
`, id, string(result.Label), result.FiredRule, result.Score, keywordsJSON,
		description, summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return notFoundIfZeroRows(res, id)
}

func notFoundIfZeroRows(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", fmt.Errorf("id %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var classification, status string
	var keywordsRaw []byte

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &classification,
		&doc.FiredRule, &doc.Score, &keywordsRaw, &doc.Description, &doc.Summary,
		&status, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(keywordsRaw) > 0 {
		if err := json.Unmarshal(keywordsRaw, &doc.MatchedKeywords); err != nil {
			return nil, fmt.Errorf("unmarshal matched keywords: %w", err)
		}
	}
	doc.Classification = domain.DocumentClass(classification)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}
