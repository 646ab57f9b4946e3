package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LennynMH/onecore.mx/internal/classify"
	"github.com/LennynMH/onecore.mx/internal/config"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
	"github.com/LennynMH/onecore.mx/internal/core/usecase"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/extractor"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/queue/nats"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/repository/postgres"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/resilience"
	"github.com/LennynMH/onecore.mx/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue      ports.MessageQueue
	Repo       ports.DocumentRepository
	FileRepo   ports.FileRepository
	Classifier ports.TextClassifier

	IngestUC  ports.DocumentIngestor
	FileUC    ports.FileIngestor
	ProcessUC ports.DocumentProcessor
	HistoryUC ports.HistoryBrowser
	ExportUC  ports.HistoryExporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	fileRepo := postgres.NewFileRepository(db)
	if err := fileRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure file schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultPolicy()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifier, err := loadClassifier(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier lexicon: %w", err)
	}

	textExtractor := extractor.NewDispatcher(storage)

	ingestUC := usecase.NewUploadDocumentUseCase(repo, storage, queue)
	fileUC := usecase.NewUploadFileUseCase(fileRepo, storage, logger)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, classifier, logger)
	historyUC := usecase.NewHistoryUseCase(repo)
	exportUC := usecase.NewExportHistoryUseCase(repo)

	return &App{
		Config: cfg,

		Queue:      queue,
		Repo:       repo,
		FileRepo:   fileRepo,
		Classifier: classifier,

		IngestUC:  ingestUC,
		FileUC:    fileUC,
		ProcessUC: processUC,
		HistoryUC: historyUC,
		ExportUC:  exportUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadClassifier(lexiconPath string) (*classify.Classifier, error) {
	if lexiconPath == "" {
		return classify.NewDefault()
	}
	lex, err := classify.LoadFile(lexiconPath)
	if err != nil {
		return nil, err
	}
	return classify.New(lex), nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
