package usecase

import (
	"context"
	"fmt"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 100
)

type HistoryUseCase struct {
	repo ports.DocumentRepository
}

func NewHistoryUseCase(repo ports.DocumentRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

func (uc *HistoryUseCase) List(ctx context.Context, filter domain.HistoryFilter) (*domain.HistoryPage, error) {
	filter = normalizeHistoryFilter(filter)

	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.PageSize - 1) / filter.PageSize
	}
	return &domain.HistoryPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

func normalizeHistoryFilter(filter domain.HistoryFilter) domain.HistoryFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultHistoryPageSize
	}
	if filter.PageSize > maxHistoryPageSize {
		filter.PageSize = maxHistoryPageSize
	}
	return filter
}
