// Command backfill copies every row of the workbook result table into the
// result_records table, keeping each row's Last Updated time. Rows already in
// Postgres for the same USN and semester have their SGPA overwritten. Rows
// whose semester label is not in the catalogue are skipped.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"vtuportal/internal/bootstrap"
	"vtuportal/internal/config"
	"vtuportal/internal/domain"
	"vtuportal/internal/logging"
	"vtuportal/internal/port"
	"vtuportal/internal/repository/postgres"
	"vtuportal/internal/repository/sheet"
	"vtuportal/internal/semester"
	s3storage "vtuportal/internal/storage/s3"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catalogue, err := semester.LoadFile(cfg.Semester.CataloguePath)
	if err != nil {
		return fmt.Errorf("loading semester catalogue: %w", err)
	}

	client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing S3 client: %w", err)
	}
	source := sheet.NewResultRepo(client, bootstrap.SheetOptions(cfg, logger))

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	c := &copier{
		source:    source,
		target:    postgresTarget(db),
		catalogue: catalogue,
		logger:    logger,
	}
	stats, err := c.run(ctx)
	if err != nil {
		return err
	}
	logger.Info("backfill complete",
		zap.Int("created", stats.created),
		zap.Int("updated", stats.updated),
		zap.Int("skipped", stats.skipped))
	return nil
}

// postgresTarget builds one repo per row so the stored timestamp is the
// workbook's.
func postgresTarget(db *sqlx.DB) func(domain.Clock) port.ResultRepository {
	return func(clock domain.Clock) port.ResultRepository {
		return postgres.NewResultRepoWithClock(db, clock)
	}
}

type copyStats struct {
	created, updated, skipped int
}

type copier struct {
	source    port.ResultRepository
	target    func(domain.Clock) port.ResultRepository
	catalogue *semester.Catalogue
	logger    *zap.Logger
	now       domain.Clock
}

func (c *copier) run(ctx context.Context) (copyStats, error) {
	var stats copyStats
	now := c.now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	for offset := 0; ; {
		rows, total, err := c.source.List(ctx, offset, batchSize)
		if err != nil {
			return stats, fmt.Errorf("listing workbook rows at offset %d: %w", offset, err)
		}
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			row := rows[i]
			if _, ok := c.catalogue.ByLabel(row.SemesterLabel); !ok {
				c.logger.Warn("skipping row with unknown semester",
					zap.Int64("row_index", row.RowIndex),
					zap.String("usn", row.ExternalID),
					zap.String("semester", row.SemesterLabel))
				stats.skipped++
				continue
			}

			stamp := row.LastUpdated
			if stamp.IsZero() {
				stamp = now()
			}
			action, err := c.target(func() time.Time { return stamp }).Upsert(ctx, &row)
			if err != nil {
				c.logger.Warn("skipping row",
					zap.Int64("row_index", row.RowIndex),
					zap.String("usn", row.ExternalID),
					zap.Error(err))
				stats.skipped++
				continue
			}
			if action == domain.UpsertCreated {
				stats.created++
			} else {
				stats.updated++
			}
		}

		offset += len(rows)
		c.logger.Info("progress", zap.Int("processed", offset), zap.Int("total", total))
		if offset >= total {
			break
		}
	}
	return stats, nil
}
