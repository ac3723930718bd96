package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vtuportal/internal/domain"
	"vtuportal/internal/port"
)

const resultColumns = `row_index, student_name, usn, sgpa, semester_label, last_updated`

type resultRepo struct {
	db  *sqlx.DB
	now domain.Clock
}

// NewResultRepo creates a new PostgreSQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return NewResultRepoWithClock(db, domain.SystemClock)
}

// NewResultRepoWithClock is NewResultRepo with an injectable clock.
func NewResultRepoWithClock(db *sqlx.DB, clock domain.Clock) port.ResultRepository {
	return &resultRepo{db: db, now: clock}
}

func (r *resultRepo) FindByExternalID(ctx context.Context, usn string) (*domain.ResultRow, error) {
	var row domain.ResultRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+resultColumns+` FROM result_records
		 WHERE usn = $1 ORDER BY row_index LIMIT 1`, usn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resultRepo.FindByExternalID: %w", err)
	}
	return &row, nil
}

func (r *resultRepo) FindByExternalIDAndSemester(ctx context.Context, usn, semesterLabel string) (*domain.ResultRow, error) {
	var row domain.ResultRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+resultColumns+` FROM result_records
		 WHERE usn = $1 AND semester_label = $2 ORDER BY row_index LIMIT 1`, usn, semesterLabel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resultRepo.FindByExternalIDAndSemester: %w", err)
	}
	return &row, nil
}

func (r *resultRepo) ListByExternalID(ctx context.Context, usn string) ([]domain.ResultRow, error) {
	var rows []domain.ResultRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+resultColumns+` FROM result_records
		 WHERE usn = $1 ORDER BY row_index`, usn)
	if err != nil {
		return nil, fmt.Errorf("resultRepo.ListByExternalID: %w", err)
	}
	return rows, nil
}

func (r *resultRepo) List(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM result_records`); err != nil {
		return nil, 0, fmt.Errorf("resultRepo.List count: %w", err)
	}

	if offset < 0 {
		offset = 0
	}
	rows := []domain.ResultRow{}
	var err error
	if limit > 0 {
		err = r.db.SelectContext(ctx, &rows,
			`SELECT `+resultColumns+` FROM result_records
			 ORDER BY row_index LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &rows,
			`SELECT `+resultColumns+` FROM result_records
			 ORDER BY row_index OFFSET $1`, offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("resultRepo.List: %w", err)
	}
	return rows, total, nil
}

// Upsert takes a transaction-scoped advisory lock on the (usn, semester) key
// before looking for an existing row, so concurrent writers for one key
// queue behind each other instead of both inserting.
func (r *resultRepo) Upsert(ctx context.Context, row *domain.ResultRow) (domain.UpsertAction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("resultRepo.Upsert begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err = tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, row.ExternalID+"|"+row.SemesterLabel); err != nil {
		return "", fmt.Errorf("resultRepo.Upsert lock: %w", err)
	}

	var existing domain.ResultRow
	err = tx.GetContext(ctx, &existing,
		`SELECT `+resultColumns+` FROM result_records
		 WHERE usn = $1 AND semester_label = $2 ORDER BY row_index LIMIT 1`,
		row.ExternalID, row.SemesterLabel)

	var action domain.UpsertAction
	switch {
	case err == nil:
		row.RowIndex = existing.RowIndex
		row.Name = existing.Name
		row.LastUpdated = domain.NextUpdateTime(r.now(), existing.LastUpdated)
		if _, err = tx.ExecContext(ctx,
			`UPDATE result_records SET sgpa = $1, last_updated = $2 WHERE row_index = $3`,
			row.SGPA, row.LastUpdated, row.RowIndex); err != nil {
			return "", fmt.Errorf("resultRepo.Upsert update: %w", err)
		}
		action = domain.UpsertUpdated

	case errors.Is(err, sql.ErrNoRows):
		row.LastUpdated = domain.NextUpdateTime(r.now(), time.Time{})
		if err = tx.QueryRowxContext(ctx,
			`INSERT INTO result_records (student_name, usn, sgpa, semester_label, last_updated)
			 VALUES ($1, $2, $3, $4, $5) RETURNING row_index`,
			row.Name, row.ExternalID, row.SGPA, row.SemesterLabel, row.LastUpdated,
		).Scan(&row.RowIndex); err != nil {
			return "", fmt.Errorf("resultRepo.Upsert insert: %w", err)
		}
		action = domain.UpsertCreated

	default:
		return "", fmt.Errorf("resultRepo.Upsert select: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("resultRepo.Upsert commit: %w", err)
	}
	return action, nil
}

func (r *resultRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("resultRepo.Ping: %w", err)
	}
	return nil
}
