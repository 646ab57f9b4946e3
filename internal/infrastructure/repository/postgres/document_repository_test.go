package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveClassificationReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", "FACTURA", 1, 13, sqlmock.AnyArg(), "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveClassification(context.Background(), "missing", domain.ClassificationResult{
		Label:     domain.ClassInvoice,
		FiredRule: 1,
		Score:     13,
		MatchedKeywords: domain.MatchedKeywords{
			Critical:  []string{"factura"},
			Important: []string{"cliente", "total"},
			Secondary: []string{},
		},
	}, "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListBuildsFilteredQuery(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents WHERE classification = \$1 AND status = \$2`).
		WithArgs("FACTURA", "ready").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, filename, mime_type, storage_path`).
		WithArgs("FACTURA", "ready", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "filename", "mime_type", "storage_path", "classification", "fired_rule",
			"score", "matched_keywords", "description", "summary", "status", "error_message",
			"created_at", "updated_at",
		}).AddRow(
			"doc-1", "factura.pdf", "application/pdf", "key", "FACTURA", 1,
			13, []byte(`{"critical":["factura"],"important":["total"],"secondary":[]}`),
			"", "", "ready", "", now, now,
		))

	docs, total, err := repo.List(context.Background(), domain.HistoryFilter{
		Classification: "FACTURA",
		Status:         "ready",
		Page:           1,
		PageSize:       50,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(docs) != 1 {
		t.Fatalf("total = %d, docs = %d", total, len(docs))
	}
	if docs[0].Classification != domain.ClassInvoice {
		t.Fatalf("classification = %q", docs[0].Classification)
	}
	if len(docs[0].MatchedKeywords.Critical) != 1 || docs[0].MatchedKeywords.Critical[0] != "factura" {
		t.Fatalf("matched keywords = %+v", docs[0].MatchedKeywords)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBuildHistoryWhere(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildHistoryWhere(domain.HistoryFilter{
		Classification: "INFORMACIÓN",
		FilenameQuery:  "boletin",
		DateFrom:       from,
	})
	want := " WHERE classification = $1 AND filename ILIKE $2 AND created_at >= $3"
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 3 || args[1] != "%boletin%" {
		t.Fatalf("args = %v", args)
	}

	where, args = buildHistoryWhere(domain.HistoryFilter{})
	if where != "" || args != nil {
		t.Fatalf("empty filter produced %q %v", where, args)
	}
}
