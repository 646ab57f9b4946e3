package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LennynMH/onecore.mx/internal/classify"
	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
)

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	classifier ports.TextClassifier
	logger     *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	classifier ports.TextClassifier,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		classifier: classifier,
		logger:     logger,
	}
}

// ProcessByID runs the extract/classify/persist pipeline for one document.
// The returned document reflects the final state (classification, status,
// error message) so callers can record metrics without re-reading storage;
// it is non-nil whenever the document could be fetched, including failures.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return doc, fmt.Errorf("set status=processing: %w", err)
	}
	doc.Status = domain.StatusProcessing

	if err := uc.processPipeline(ctx, doc); err != nil {
		doc.Status = domain.StatusFailed
		doc.Error = err.Error()
		if failErr := uc.markStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return doc, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return doc, err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return doc, fmt.Errorf("set status=ready: %w", err)
	}
	doc.Status = domain.StatusReady
	return doc, nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, doc *domain.Document) error {
	// Empty extracted text is not a failure: the classifier handles it by
	// falling through to the informational default.
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	result := uc.classifier.Classify(text)
	uc.logger.Info("document_classified",
		append([]any{"document_id", doc.ID, "report", classify.Report(result)},
			classify.LogAttrs(result)...)...)

	var description, summary string
	if result.Label == domain.ClassInformational {
		description, summary = describeInformational(text)
	}

	if err := uc.repo.SaveClassification(ctx, doc.ID, result, description, summary); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}

	doc.Classification = result.Label
	doc.FiredRule = result.FiredRule
	doc.Score = result.Score
	doc.MatchedKeywords = result.MatchedKeywords
	doc.Description = description
	doc.Summary = summary
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

const informationalSummaryMaxChars = 500

// describeInformational derives a short description (first paragraph) and a
// summary (first three paragraphs, or the leading text when the document has
// fewer) for informational documents.
func describeInformational(text string) (description, summary string) {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) == 0 {
		return "", ""
	}

	description = truncateRunes(paragraphs[0], informationalSummaryMaxChars)
	if len(paragraphs) >= 3 {
		summary = truncateRunes(strings.Join(paragraphs[:3], " "), informationalSummaryMaxChars)
	} else {
		summary = truncateRunes(strings.TrimSpace(text), informationalSummaryMaxChars)
	}
	return description, summary
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
