package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

// Fields attached by the service itself. They carry the caller-supplied tags
// and are excluded from validation and from duplicate comparison.
var systemRowFields = map[string]bool{
	"param1": true,
	"param2": true,
}

// Field-name sets for type detection: a column whose lowercased name appears
// in one of these is validated against the corresponding format.
var (
	emailFields = map[string]bool{
		"email": true, "e-mail": true, "correo": true,
	}
	numericFields = map[string]bool{
		"age": true, "edad": true, "id": true, "number": true,
		"numero": true, "count": true, "cantidad": true,
	}
	dateFields = map[string]bool{
		"date": true, "fecha": true, "birthdate": true,
		"fecha_nacimiento": true, "created_at": true, "updated_at": true,
	}
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var rowDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"2006/01/02",
}

// validateRow checks one data row: empty values first, then type formats.
// Type checks only run on rows with no empty values, so a single blank cell
// does not additionally report every typed column. Columns are walked in
// header order for stable error ordering.
func validateRow(columns []string, row map[string]string, rowNumber int) []domain.RowError {
	errs := validateEmptyValues(columns, row, rowNumber)
	if len(errs) > 0 {
		return errs
	}
	return validateTypes(columns, row, rowNumber)
}

func validateEmptyValues(columns []string, row map[string]string, rowNumber int) []domain.RowError {
	var errs []domain.RowError
	for _, col := range columns {
		if systemRowFields[col] {
			continue
		}
		if strings.TrimSpace(row[col]) == "" {
			errs = append(errs, domain.RowError{
				Type:    domain.RowErrorEmptyValue,
				Field:   col,
				Message: fmt.Sprintf("empty value in field '%s'", col),
				Row:     rowNumber,
			})
		}
	}
	return errs
}

func validateTypes(columns []string, row map[string]string, rowNumber int) []domain.RowError {
	var errs []domain.RowError
	for _, col := range columns {
		if systemRowFields[col] {
			continue
		}
		value := row[col]
		if strings.TrimSpace(value) == "" {
			continue
		}

		name := strings.ToLower(col)
		ok := true
		switch {
		case emailFields[name]:
			ok = isValidEmail(value)
		case numericFields[name]:
			ok = isValidNumber(value)
		case dateFields[name]:
			ok = isValidDate(value)
		}
		if !ok {
			errs = append(errs, domain.RowError{
				Type:    domain.RowErrorIncorrectType,
				Field:   col,
				Message: fmt.Sprintf("invalid format in field '%s': '%s'", col, value),
				Row:     rowNumber,
			})
		}
	}
	return errs
}

// checkDuplicate reports the first previously accepted row that is identical
// to this one, system fields excluded. Returns nil when the row is unique.
func checkDuplicate(row map[string]string, rowNumber int, seen []map[string]string) *domain.RowError {
	for idx, prev := range seen {
		if rowsEqualIgnoringSystemFields(row, prev) {
			return &domain.RowError{
				Type:    domain.RowErrorDuplicate,
				Message: fmt.Sprintf("duplicate row detected: row %d is identical to row %d", rowNumber, idx+1),
				Row:     rowNumber,
			}
		}
	}
	return nil
}

func rowsEqualIgnoringSystemFields(a, b map[string]string) bool {
	for k, v := range a {
		if systemRowFields[k] {
			continue
		}
		if b[k] != v {
			return false
		}
	}
	for k := range b {
		if systemRowFields[k] {
			continue
		}
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}

func isValidEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

func isValidNumber(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

func isValidDate(value string) bool {
	trimmed := strings.TrimSpace(value)
	for _, format := range rowDateFormats {
		if _, err := time.Parse(format, trimmed); err == nil {
			return true
		}
	}
	return false
}
