package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
)

const exportBatchSize = 500

// ExportHistoryUseCase renders the filtered document history as an XLSX
// workbook. Rows are fetched in batches so exports of large histories do not
// hold the full result set and the workbook in memory twice.
type ExportHistoryUseCase struct {
	repo ports.DocumentRepository
}

func NewExportHistoryUseCase(repo ports.DocumentRepository) *ExportHistoryUseCase {
	return &ExportHistoryUseCase{repo: repo}
}

func (uc *ExportHistoryUseCase) ExportXLSX(ctx context.Context, filter domain.HistoryFilter) ([]byte, error) {
	const sheet = "Historial"

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("build header style: %w", err)
	}

	headers := []string{"ID", "Archivo", "Clasificación", "Regla", "Puntaje", "Estado", "Fecha"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 38); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "C", 28); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "G", "G", 22); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	filter.Page = 1
	filter.PageSize = exportBatchSize
	row := 2
	for {
		items, total, err := uc.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list documents for export: %w", err)
		}
		for _, doc := range items {
			values := []any{
				doc.ID,
				doc.Filename,
				string(doc.Classification),
				doc.FiredRule,
				doc.Score,
				string(doc.Status),
				doc.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, fmt.Errorf("data cell name: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
			}
			row++
		}
		if len(items) < filter.PageSize || (row-2) >= total {
			break
		}
		filter.Page++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
