package domain

import "time"

// Row error types reported by CSV validation.
const (
	RowErrorEmptyValue    = "empty_value"
	RowErrorIncorrectType = "incorrect_type"
	RowErrorDuplicate     = "duplicate"
	RowErrorFileStructure = "file_structure"
	RowErrorUpload        = "upload_error"
)

// RowError describes one defect found while validating an uploaded CSV
// dataset. Row is the 1-based data row number (the header row is not
// counted); it is 0 for file-level errors.
type RowError struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Row     int    `json:"row,omitempty"`
}

// FileUpload is the stored metadata for one ingested CSV dataset.
type FileUpload struct {
	ID               int64      `json:"id"`
	Filename         string     `json:"filename"`
	StorageKey       string     `json:"storage_key,omitempty"`
	RowCount         int        `json:"row_count"`
	ErrorCount       int        `json:"error_count"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ValidationErrors []RowError `json:"validation_errors,omitempty"`
}

// FileUploadResult is the synchronous outcome of one CSV ingestion: the
// stored dataset id, the unique filename the blob was kept under, and every
// validation error found while processing the rows.
type FileUploadResult struct {
	FileID           int64      `json:"file_id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	StorageKey       string     `json:"storage_key,omitempty"`
	RowsProcessed    int        `json:"rows_processed"`
	ValidationErrors []RowError `json:"validation_errors"`
	Param1           string     `json:"param1"`
	Param2           string     `json:"param2"`
}
