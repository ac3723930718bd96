package port

import (
	"context"

	"vtuportal/internal/domain"
)

// ResultRepository is the shared result table keyed by USN.
//
// Upsert matches an existing row on (ExternalID, SemesterLabel). A match
// has only its SGPA and Last Updated cells rewritten; otherwise a new row is
// appended. Implementations serialise concurrent upserts for the same key so
// that at most one row exists per USN and semester.
type ResultRepository interface {
	// FindByExternalID returns the first row for usn in store order, or
	// domain.ErrNotFound.
	FindByExternalID(ctx context.Context, usn string) (*domain.ResultRow, error)
	// FindByExternalIDAndSemester returns the row for usn in semesterLabel,
	// or domain.ErrNotFound.
	FindByExternalIDAndSemester(ctx context.Context, usn, semesterLabel string) (*domain.ResultRow, error)
	// ListByExternalID returns every row for usn in store order.
	ListByExternalID(ctx context.Context, usn string) ([]domain.ResultRow, error)
	// List pages through all rows in store order and returns the total count.
	// A limit <= 0 returns every row from offset on; a negative offset is 0.
	List(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error)
	// Upsert writes row and reports whether it was appended or updated.
	// row is updated in place with the stored values.
	Upsert(ctx context.Context, row *domain.ResultRow) (domain.UpsertAction, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
