package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

func TestUploadStoresPersistsAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	queue := &fakeQueue{}
	uc := NewUploadDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "Factura Enero.pdf", "application/pdf", strings.NewReader("%PDF-1.4 data"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected generated document ID")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %q, want %q", doc.Status, domain.StatusUploaded)
	}
	if doc.Filename != "Factura Enero.pdf" {
		t.Fatalf("filename = %q", doc.Filename)
	}
	if !strings.HasSuffix(doc.StoragePath, "_Factura_Enero.pdf") {
		t.Fatalf("storage path %q does not carry sanitized filename", doc.StoragePath)
	}
	if _, ok := storage.blobs[doc.StoragePath]; !ok {
		t.Fatal("document bytes not saved to storage")
	}
	if _, err := repo.GetByID(context.Background(), doc.ID); err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("published = %v, want one event for %s", queue.published, doc.ID)
	}
}

func TestUploadStorageFailureSkipsRepoAndQueue(t *testing.T) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	storage.saveErr = errors.New("disk full")
	queue := &fakeQueue{}
	uc := NewUploadDocumentUseCase(repo, storage, queue)

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected storage error")
	}
	if len(repo.docs) != 0 {
		t.Fatal("metadata must not be created when the blob save fails")
	}
	if len(queue.published) != 0 {
		t.Fatal("no event should be published when the blob save fails")
	}
}

func TestUploadRepoFailureSkipsQueue(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db down")
	queue := &fakeQueue{}
	uc := NewUploadDocumentUseCase(repo, newFakeStorage(), queue)

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatal("expected repo error")
	}
	if len(queue.published) != 0 {
		t.Fatal("no event should be published when the metadata write fails")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"reporte mensual.txt", "reporte_mensual.txt"},
		{"../../etc/passwd", "passwd"},
		{"factura#1 (copia).pdf", "factura_1__copia_.pdf"},
		{"", "document.bin"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
