package usecase

import (
	"testing"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

func TestValidateRowEmptyValues(t *testing.T) {
	columns := []string{"name", "email"}
	row := map[string]string{"name": "Ana", "email": "   ", "param1": "", "param2": ""}

	errs := validateRow(columns, row, 3)
	if len(errs) != 1 {
		t.Fatalf("errors = %+v, want 1", errs)
	}
	if errs[0].Type != domain.RowErrorEmptyValue || errs[0].Field != "email" || errs[0].Row != 3 {
		t.Fatalf("unexpected error: %+v", errs[0])
	}
}

func TestValidateRowSkipsTypeChecksWhenValuesMissing(t *testing.T) {
	columns := []string{"name", "email"}
	row := map[string]string{"name": "", "email": "not-an-email"}

	errs := validateRow(columns, row, 1)
	if len(errs) != 1 || errs[0].Type != domain.RowErrorEmptyValue {
		t.Fatalf("expected only the empty_value error, got %+v", errs)
	}
}

func TestValidateRowTypeFormats(t *testing.T) {
	cases := []struct {
		name    string
		columns []string
		row     map[string]string
		wantErr bool
	}{
		{"valid email", []string{"correo"}, map[string]string{"correo": "ana@example.com"}, false},
		{"invalid email", []string{"email"}, map[string]string{"email": "ana@"}, true},
		{"valid number", []string{"edad"}, map[string]string{"edad": "34.5"}, false},
		{"invalid number", []string{"cantidad"}, map[string]string{"cantidad": "tres"}, true},
		{"iso date", []string{"fecha"}, map[string]string{"fecha": "2026-08-30"}, false},
		{"slash date", []string{"date"}, map[string]string{"date": "30/08/2026"}, false},
		{"datetime", []string{"created_at"}, map[string]string{"created_at": "2026-08-30 10:15:00"}, false},
		{"invalid date", []string{"fecha"}, map[string]string{"fecha": "agosto 30"}, true},
		{"untyped column passes", []string{"nota"}, map[string]string{"nota": "cualquier cosa"}, false},
	}
	for _, tc := range cases {
		errs := validateRow(tc.columns, tc.row, 1)
		if tc.wantErr && (len(errs) != 1 || errs[0].Type != domain.RowErrorIncorrectType) {
			t.Fatalf("%s: expected incorrect_type error, got %+v", tc.name, errs)
		}
		if !tc.wantErr && len(errs) != 0 {
			t.Fatalf("%s: unexpected errors %+v", tc.name, errs)
		}
	}
}

func TestCheckDuplicateIgnoresSystemFields(t *testing.T) {
	seen := []map[string]string{
		{"name": "Ana", "email": "ana@example.com", "param1": "a", "param2": "b"},
	}
	dup := checkDuplicate(map[string]string{
		"name": "Ana", "email": "ana@example.com", "param1": "x", "param2": "y",
	}, 2, seen)
	if dup == nil || dup.Type != domain.RowErrorDuplicate || dup.Row != 2 {
		t.Fatalf("expected duplicate error, got %+v", dup)
	}

	unique := checkDuplicate(map[string]string{
		"name": "Luis", "email": "luis@example.com", "param1": "a", "param2": "b",
	}, 3, seen)
	if unique != nil {
		t.Fatalf("unexpected duplicate for distinct row: %+v", unique)
	}
}
