package ports

import (
	"context"
	"io"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.Document, int, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, res domain.ClassificationResult, description, summary string) error
}

// FileRepository persists validated CSV datasets: the upload metadata, the
// accepted rows, and the validation errors recorded against the file.
type FileRepository interface {
	SaveFileData(ctx context.Context, meta *domain.FileUpload, rows []map[string]string) (int64, error)
	GetFileMetadata(ctx context.Context, id int64) (*domain.FileUpload, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// TextClassifier decides FACTURA vs INFORMACIÓN for extracted text. The
// implementation is a pure function over the startup lexicon: it cannot
// fail, never blocks, and is safe for concurrent use, so the contract
// carries neither a context nor an error.
type TextClassifier interface {
	Classify(text string) domain.ClassificationResult
}
