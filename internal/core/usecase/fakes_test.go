package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/LennynMH/onecore.mx/internal/core/domain"
)

type fakeRepo struct {
	mu   sync.Mutex
	docs map[string]*domain.Document

	createErr error
	listErr   error
	saveErr   error

	listCalls []domain.HistoryFilter
	listPages [][]domain.Document
	listTotal int

	getCalls  int
	statusLog []domain.DocumentStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: map[string]*domain.Document{}}
}

func (r *fakeRepo) Create(_ context.Context, doc *domain.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filter domain.HistoryFilter) ([]domain.Document, int, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls = append(r.listCalls, filter)
	if len(r.listPages) == 0 {
		return nil, r.listTotal, nil
	}
	page := r.listPages[0]
	r.listPages = r.listPages[1:]
	return page, r.listTotal, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusLog = append(r.statusLog, status)
	if doc, ok := r.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (r *fakeRepo) SaveClassification(_ context.Context, id string, res domain.ClassificationResult, description, summary string) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	doc.Classification = res.Label
	doc.FiredRule = res.FiredRule
	doc.Score = res.Score
	doc.MatchedKeywords = res.MatchedKeywords
	doc.Description = description
	doc.Summary = summary
	return nil
}

type fakeFileRepo struct {
	mu      sync.Mutex
	nextID  int64
	meta    map[int64]*domain.FileUpload
	rows    map[int64][]map[string]string
	saveErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		nextID: 1,
		meta:   map[int64]*domain.FileUpload{},
		rows:   map[int64][]map[string]string{},
	}
}

func (r *fakeFileRepo) SaveFileData(_ context.Context, meta *domain.FileUpload, rows []map[string]string) (int64, error) {
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	cp := *meta
	cp.ID = id
	r.meta[id] = &cp
	r.rows[id] = rows
	return id, nil
}

func (r *fakeFileRepo) GetFileMetadata(_ context.Context, id int64) (*domain.FileUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.meta[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	cp := *meta
	return &cp, nil
}

type fakeStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte

	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = raw
	return nil
}

func (s *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type fakeQueue struct {
	mu         sync.Mutex
	published  []string
	publishErr error
}

func (q *fakeQueue) PublishDocumentIngested(_ context.Context, documentID string) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, documentID)
	return nil
}

func (q *fakeQueue) SubscribeDocumentIngested(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(_ context.Context, _ *domain.Document) (string, error) {
	return e.text, e.err
}

type fakeClassifier struct {
	result domain.ClassificationResult
}

func (c *fakeClassifier) Classify(string) domain.ClassificationResult {
	return c.result
}
