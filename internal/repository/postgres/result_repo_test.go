package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtuportal/internal/domain"
	"vtuportal/internal/port"
	"vtuportal/internal/repository/postgres"
)

var columns = []string{"row_index", "student_name", "usn", "sgpa", "semester_label", "last_updated"}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newRepo(t *testing.T, clock domain.Clock) (port.ResultRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewResultRepoWithClock(sqlx.NewDb(db, "pgx"), clock), mock
}

func TestResultRepo_Upsert_Insert(t *testing.T) {
	repo, mock := newRepo(t, func() time.Time { return fixedNow })

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WithArgs("1AB23CS001|1st Semester").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM result_records\s+WHERE usn = \$1 AND semester_label = \$2`).
		WithArgs("1AB23CS001", "1st Semester").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(`INSERT INTO result_records`).
		WithArgs("JOHN DOE", "1AB23CS001", sqlmock.AnyArg(), "1st Semester", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"row_index"}).AddRow(int64(7)))
	mock.ExpectCommit()

	row := &domain.ResultRow{
		Name:          "JOHN DOE",
		ExternalID:    "1AB23CS001",
		SGPA:          decimal.RequireFromString("8.17"),
		SemesterLabel: "1st Semester",
	}
	action, err := repo.Upsert(context.Background(), row)
	require.NoError(t, err)

	assert.Equal(t, domain.UpsertCreated, action)
	assert.Equal(t, int64(7), row.RowIndex)
	assert.True(t, fixedNow.Equal(row.LastUpdated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_Upsert_UpdateKeepsNameAndAdvancesTimestamp(t *testing.T) {
	// Clock equal to the stored timestamp must still move Last Updated forward.
	repo, mock := newRepo(t, func() time.Time { return fixedNow })

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WithArgs("1AB23CS001|1st Semester").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM result_records\s+WHERE usn = \$1 AND semester_label = \$2`).
		WithArgs("1AB23CS001", "1st Semester").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), "JOHN DOE", "1AB23CS001", "7.50", "1st Semester", fixedNow))
	mock.ExpectExec(`UPDATE result_records SET sgpa = \$1, last_updated = \$2 WHERE row_index = \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	row := &domain.ResultRow{
		Name:          "JOHN D",
		ExternalID:    "1AB23CS001",
		SGPA:          decimal.RequireFromString("8.17"),
		SemesterLabel: "1st Semester",
	}
	action, err := repo.Upsert(context.Background(), row)
	require.NoError(t, err)

	assert.Equal(t, domain.UpsertUpdated, action)
	assert.Equal(t, int64(3), row.RowIndex)
	assert.Equal(t, "JOHN DOE", row.Name)
	assert.True(t, fixedNow.Add(time.Microsecond).Equal(row.LastUpdated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_Upsert_RollsBackOnInsertError(t *testing.T) {
	repo, mock := newRepo(t, func() time.Time { return fixedNow })

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM result_records`).WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery(`INSERT INTO result_records`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), &domain.ResultRow{ExternalID: "X1", SemesterLabel: "S"})
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_FindByExternalID(t *testing.T) {
	repo, mock := newRepo(t, domain.SystemClock)

	mock.ExpectQuery(`WHERE usn = \$1 ORDER BY row_index LIMIT 1`).
		WithArgs("1AB23CS001").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "JOHN DOE", "1AB23CS001", "8.17", "1st Semester", fixedNow))

	row, err := repo.FindByExternalID(context.Background(), "1AB23CS001")
	require.NoError(t, err)
	assert.Equal(t, "JOHN DOE", row.Name)
	assert.Equal(t, "8.17", row.SGPA.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_FindByExternalID_NotFound(t *testing.T) {
	repo, mock := newRepo(t, domain.SystemClock)

	mock.ExpectQuery(`FROM result_records`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.FindByExternalID(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResultRepo_FindByExternalIDAndSemester_NotFound(t *testing.T) {
	repo, mock := newRepo(t, domain.SystemClock)

	mock.ExpectQuery(`semester_label = \$2`).
		WithArgs("1AB23CS001", "2nd Semester").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.FindByExternalIDAndSemester(context.Background(), "1AB23CS001", "2nd Semester")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResultRepo_List(t *testing.T) {
	repo, mock := newRepo(t, domain.SystemClock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM result_records`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`ORDER BY row_index LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "A", "1X", "9.00", "1st Semester", fixedNow).
			AddRow(int64(2), "B", "2X", "6.25", "1st Semester", fixedNow))

	rows, total, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "2X", rows[1].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_List_NonPositiveLimitReturnsEveryRow(t *testing.T) {
	repo, mock := newRepo(t, domain.SystemClock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM result_records`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`ORDER BY row_index OFFSET \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "B", "2X", "6.25", "1st Semester", fixedNow).
			AddRow(int64(3), "C", "3X", "7.00", "1st Semester", fixedNow))

	rows, total, err := repo.List(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "3X", rows[1].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
