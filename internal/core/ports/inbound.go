package ports

import (
	"context"
	"io"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing. ProcessByID returns the document in its final state so callers
// can observe the outcome without a second repository read.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (*domain.Document, error)
}

// FileIngestor is the inbound contract for CSV dataset ingestion: parse,
// validate row by row, store the blob, and persist the validated rows.
type FileIngestor interface {
	UploadCSV(ctx context.Context, filename string, body io.Reader, param1, param2 string) (*domain.FileUploadResult, error)
}

// FileReader reads stored dataset metadata, validation errors included.
type FileReader interface {
	GetFileMetadata(ctx context.Context, id int64) (*domain.FileUpload, error)
}

// HistoryBrowser lists processed documents with filters and pagination.
type HistoryBrowser interface {
	List(ctx context.Context, filter domain.HistoryFilter) (*domain.HistoryPage, error)
}

// HistoryExporter renders a filtered history listing as a spreadsheet.
type HistoryExporter interface {
	ExportXLSX(ctx context.Context, filter domain.HistoryFilter) ([]byte, error)
}
