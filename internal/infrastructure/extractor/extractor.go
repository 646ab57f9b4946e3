// Package extractor routes text extraction to a format-specific backend
// based on the document's MIME type and filename extension.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/extractor/pdf"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/extractor/plaintext"
)

type Dispatcher struct {
	pdf   ports.TextExtractor
	plain ports.TextExtractor
}

func NewDispatcher(storage ports.ObjectStorage) *Dispatcher {
	return &Dispatcher{
		pdf:   pdf.NewExtractor(storage),
		plain: plaintext.NewExtractor(storage),
	}
}

func (d *Dispatcher) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if isPDF(doc) {
		return d.pdf.Extract(ctx, doc)
	}
	return d.plain.Extract(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	if strings.EqualFold(strings.TrimSpace(doc.MimeType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
