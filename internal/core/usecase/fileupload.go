package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
)

type UploadFileUseCase struct {
	repo    ports.FileRepository
	storage ports.ObjectStorage
	logger  *slog.Logger
}

func NewUploadFileUseCase(
	repo ports.FileRepository,
	storage ports.ObjectStorage,
	logger *slog.Logger,
) *UploadFileUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadFileUseCase{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// UploadCSV ingests one CSV dataset: every data row is validated (empty
// values, typed formats, duplicates), param1/param2 are attached to each row,
// and the rows that validate cleanly are persisted together with all the
// errors found. Blob storage is best effort; when it is unavailable the
// dataset is still saved and the result carries an empty storage key.
func (uc *UploadFileUseCase) UploadCSV(
	ctx context.Context,
	filename string,
	body io.Reader,
	param1, param2 string,
) (*domain.FileUploadResult, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	rows, validationErrors, err := parseAndValidateCSV(raw, param1, param2)
	if err != nil {
		return nil, err
	}

	uniqueName := timestampedFilename(filename)
	storageKey := uniqueName
	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(raw)); err != nil {
		uc.logger.Warn("file_blob_store_failed", "filename", uniqueName, "error", err)
		storageKey = ""
	}

	meta := &domain.FileUpload{
		Filename:         uniqueName,
		StorageKey:       storageKey,
		RowCount:         len(rows),
		ErrorCount:       len(validationErrors),
		UploadedAt:       time.Now().UTC(),
		ValidationErrors: validationErrors,
	}
	fileID, err := uc.repo.SaveFileData(ctx, meta, rows)
	if err != nil {
		return nil, fmt.Errorf("save file data: %w", err)
	}

	uc.logger.Info("csv_file_ingested",
		"file_id", fileID,
		"filename", uniqueName,
		"rows_processed", len(rows),
		"validation_errors", len(validationErrors),
		"blob_stored", storageKey != "",
	)

	return &domain.FileUploadResult{
		FileID:           fileID,
		Filename:         uniqueName,
		OriginalFilename: filename,
		StorageKey:       storageKey,
		RowsProcessed:    len(rows),
		ValidationErrors: validationErrors,
		Param1:           param1,
		Param2:           param2,
	}, nil
}

// GetFileMetadata returns the stored upload record with its validation errors.
func (uc *UploadFileUseCase) GetFileMetadata(ctx context.Context, id int64) (*domain.FileUpload, error) {
	return uc.repo.GetFileMetadata(ctx, id)
}

// parseAndValidateCSV walks the data rows of a CSV payload. Rows shorter
// than the header are padded with empty cells so missing values surface as
// empty_value errors instead of a parse failure. A row with validation
// errors is excluded from the returned rows; a duplicate of an accepted row
// is reported but still kept, so the stored data mirrors the input.
func parseAndValidateCSV(raw []byte, param1, param2 string) ([]map[string]string, []domain.RowError, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "parse csv", err)
	}

	var columns []string
	if len(records) > 0 {
		columns = records[0]
	}

	validationErrors := []domain.RowError{}
	var rows []map[string]string
	for i, record := range records {
		if i == 0 {
			continue
		}
		rowNumber := i

		row := make(map[string]string, len(columns)+2)
		for j, col := range columns {
			if j < len(record) {
				row[col] = record[j]
			} else {
				row[col] = ""
			}
		}
		row["param1"] = param1
		row["param2"] = param2

		if dup := checkDuplicate(row, rowNumber, rows); dup != nil {
			validationErrors = append(validationErrors, *dup)
		}
		if rowErrs := validateRow(columns, row, rowNumber); len(rowErrs) > 0 {
			validationErrors = append(validationErrors, rowErrs...)
			continue
		}
		rows = append(rows, row)
	}

	if len(records) <= 1 {
		validationErrors = append(validationErrors, domain.RowError{
			Type:    domain.RowErrorFileStructure,
			Message: "file is empty or has no data rows",
		})
	}
	return rows, validationErrors, nil
}

// timestampedFilename suffixes the sanitized name with a UTC ddmmyyyyhhmmss
// stamp before the extension, so repeated uploads of the same file never
// collide in blob storage.
func timestampedFilename(original string) string {
	base := sanitizeFilename(original)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", name, time.Now().UTC().Format("02012006150405"), ext)
}
