// Package sheet stores the shared result table as a single xlsx workbook in
// S3-compatible object storage. Writers re-read the workbook, apply their
// change and write it back conditionally on the ETag they read, so two
// processes racing on the same object cannot silently overwrite each other.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"vtuportal/internal/domain"
	"vtuportal/internal/port"
)

// Options configures a sheet-backed ResultRepository.
type Options struct {
	Bucket      string
	Key         string
	SheetName   string
	MaxAttempts uint
	RetryDelay  time.Duration
	Clock       domain.Clock
	Logger      *zap.Logger
}

type resultRepo struct {
	storage port.ObjectStorage
	opts    Options
	log     *zap.Logger

	// mu serialises writers inside this process; the ETag condition covers
	// writers in other processes.
	mu sync.Mutex
}

// NewResultRepo creates a ResultRepository over the workbook at opts.Bucket/opts.Key.
func NewResultRepo(storage port.ObjectStorage, opts Options) port.ResultRepository {
	if opts.SheetName == "" {
		opts.SheetName = "Results"
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &resultRepo{
		storage: storage,
		opts:    opts,
		log:     opts.Logger.Named("sheetRepo"),
	}
}

func (r *resultRepo) load(ctx context.Context) (*workbook, error) {
	obj, err := r.storage.GetObject(ctx, r.opts.Bucket, r.opts.Key)
	if errors.Is(err, domain.ErrNotFound) {
		return newWorkbook(r.opts.SheetName)
	}
	if err != nil {
		return nil, fmt.Errorf("sheetRepo.load: %w", err)
	}
	return openWorkbook(obj.Body, obj.ETag, r.opts.SheetName, r.log)
}

func (r *resultRepo) rows(ctx context.Context) ([]domain.ResultRow, error) {
	wb, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	defer wb.close()
	return wb.rows, nil
}

func (r *resultRepo) FindByExternalID(ctx context.Context, usn string) (*domain.ResultRow, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ExternalID == usn {
			return &rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *resultRepo) FindByExternalIDAndSemester(ctx context.Context, usn, semesterLabel string) (*domain.ResultRow, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ExternalID == usn && rows[i].SemesterLabel == semesterLabel {
			return &rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *resultRepo) ListByExternalID(ctx context.Context, usn string) ([]domain.ResultRow, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ResultRow
	for i := range rows {
		if rows[i].ExternalID == usn {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (r *resultRepo) List(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error) {
	rows, err := r.rows(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(rows)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.ResultRow{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return rows[offset:end], total, nil
}

func (r *resultRepo) Upsert(ctx context.Context, row *domain.ResultRow) (domain.UpsertAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var written domain.ResultRow
	action, err := retry.DoWithData(
		func() (domain.UpsertAction, error) {
			out := *row
			a, err := r.upsertOnce(ctx, &out)
			if err != nil {
				return "", err
			}
			written = out
			return a, nil
		},
		retry.Context(ctx),
		retry.Attempts(r.opts.MaxAttempts),
		retry.Delay(r.opts.RetryDelay),
		retry.MaxDelay(20*r.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrStoreConflict)
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn("workbook changed during upsert, retrying",
				zap.Uint("attempt", n+1),
				zap.String("usn", row.ExternalID),
				zap.String("semester", row.SemesterLabel),
				zap.Error(err))
		}),
	)
	if err != nil {
		return "", err
	}
	*row = written
	return action, nil
}

// upsertOnce applies row to a freshly read workbook and writes it back
// conditionally. A lost race yields domain.ErrStoreConflict.
func (r *resultRepo) upsertOnce(ctx context.Context, row *domain.ResultRow) (domain.UpsertAction, error) {
	wb, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	defer wb.close()

	var action domain.UpsertAction
	if i := wb.find(row.ExternalID, row.SemesterLabel); i >= 0 {
		existing := wb.rows[i]
		row.RowIndex = existing.RowIndex
		row.Name = existing.Name
		row.LastUpdated = domain.NextUpdateTime(r.opts.Clock(), existing.LastUpdated)
		if err := wb.update(*row); err != nil {
			return "", fmt.Errorf("sheetRepo.Upsert update: %w", err)
		}
		action = domain.UpsertUpdated
	} else {
		row.LastUpdated = domain.NextUpdateTime(r.opts.Clock(), time.Time{})
		if err := wb.appendRow(row); err != nil {
			return "", fmt.Errorf("sheetRepo.Upsert append: %w", err)
		}
		action = domain.UpsertCreated
	}

	body, err := wb.encode()
	if err != nil {
		return "", err
	}
	in := port.PutInput{
		Bucket:      r.opts.Bucket,
		Key:         r.opts.Key,
		Body:        body,
		ContentType: ContentType,
	}
	if wb.etag != "" {
		in.IfMatch = wb.etag
	} else {
		in.IfNoneMatch = "*"
	}
	if _, err := r.storage.PutObject(ctx, in); err != nil {
		if errors.Is(err, port.ErrPreconditionFailed) {
			return "", domain.ErrStoreConflict
		}
		return "", fmt.Errorf("sheetRepo.Upsert put: %w", err)
	}

	r.log.Debug("row written",
		zap.String("action", string(action)),
		zap.String("usn", row.ExternalID),
		zap.String("semester", row.SemesterLabel),
		zap.Int64("row", row.RowIndex))
	return action, nil
}

func (r *resultRepo) Ping(ctx context.Context) error {
	if err := r.storage.HeadBucket(ctx, r.opts.Bucket); err != nil {
		return fmt.Errorf("sheetRepo.Ping: %w", err)
	}
	return nil
}
