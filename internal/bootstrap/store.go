// Package bootstrap builds the components shared by the server and the CLI
// tools from a loaded Config.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vtuportal/internal/config"
	"vtuportal/internal/domain"
	"vtuportal/internal/pdftext"
	"vtuportal/internal/port"
	"vtuportal/internal/repository/postgres"
	"vtuportal/internal/repository/sheet"
	"vtuportal/internal/semester"
	"vtuportal/internal/service"
	s3storage "vtuportal/internal/storage/s3"
)

// OpenStore opens the result table selected by cfg.Store.Backend.
// The returned close function releases the backend's connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.ResultRepository, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewResultRepo(db), db.Close, nil

	case config.StoreBackendSheet:
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing S3 client: %w", err)
		}
		repo := sheet.NewResultRepo(client, SheetOptions(cfg, logger))
		return repo, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// SheetOptions maps cfg onto the workbook repository options.
func SheetOptions(cfg *config.Config, logger *zap.Logger) sheet.Options {
	return sheet.Options{
		Bucket:      cfg.S3.Bucket,
		Key:         cfg.Store.WorkbookKey,
		SheetName:   cfg.Store.SheetName,
		MaxAttempts: uint(cfg.Store.MaxAttempts),
		Clock:       domain.SystemClock,
		Logger:      logger,
	}
}

// NewResultService loads the semester catalogue and assembles the pipeline
// around repo. repo may be nil.
func NewResultService(cfg *config.Config, repo port.ResultRepository, logger *zap.Logger) (service.ResultService, error) {
	catalogue, err := semester.LoadFile(cfg.Semester.CataloguePath)
	if err != nil {
		return nil, fmt.Errorf("loading semester catalogue: %w", err)
	}
	if _, err := catalogue.Get(cfg.Semester.Default); err != nil {
		return nil, fmt.Errorf("default semester: %w", err)
	}
	return service.NewResultService(catalogue, pdftext.New(), repo, cfg, logger), nil
}
