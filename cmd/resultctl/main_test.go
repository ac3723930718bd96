package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
	"vtuportal/internal/service"
	"vtuportal/mocks"
)

func fakeOpener(svc service.ResultService, gotStore *bool) opener {
	return func(withStore bool) (service.ResultService, func() error, error) {
		if gotStore != nil {
			*gotStore = withStore
		}
		return svc, func() error { return nil }, nil
	}
}

func execute(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSemestersCmd(t *testing.T) {
	svc := new(mocks.MockResultService)
	four := 4
	svc.On("Semesters").Return([]*semester.Config{semester.MustNew(semester.Spec{
		ID:       "sem1",
		Label:    "Semester 1",
		Subjects: []semester.SubjectSpec{{Code: "BMATS101", Credit: &four}},
	})})

	var withStore bool
	out, err := execute(t, fakeOpener(svc, &withStore), "semesters")
	require.NoError(t, err)
	assert.False(t, withStore)
	assert.Contains(t, out, "sem1")
	assert.Contains(t, out, "Semester 1")
}

func TestEvaluateCmd(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(good, []byte("%PDF-1.4 good"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4 bad"), 0o600))

	svc := new(mocks.MockResultService)
	svc.On("ReadUpload", mock.Anything, mock.Anything).
		Return([]byte("%PDF-1.4"), nil)

	sgpa := domain.SGPA{WeightedPoints: 68, Credits: 8}
	rounded := sgpa.Rounded()
	ev := &domain.Evaluation{
		Status:      domain.EvaluationComplete,
		Identity:    domain.StudentIdentity{Name: "JOHN DOE", ExternalID: "1AB23CS001"},
		SGPA:        &sgpa,
		SGPARounded: &rounded,
		Persistence: domain.PersistenceOutcome{Status: domain.PersistenceCreated},
	}
	svc.On("Evaluate", mock.Anything, mock.MatchedBy(func(in service.EvaluateInput) bool {
		return in.SemesterID == "sem1" && in.Persist
	})).Return(ev, nil)

	var withStore bool
	out, err := execute(t, fakeOpener(svc, &withStore), "evaluate", "--semester", "sem1", "--persist", "-j", "2", good, bad)
	require.NoError(t, err)
	assert.True(t, withStore)
	assert.Contains(t, out, "1AB23CS001")
	assert.Contains(t, out, "8.50")
	assert.Contains(t, out, "created")
	svc.AssertNumberOfCalls(t, "Evaluate", 2)
}

func TestEvaluateCmd_ReportsFailures(t *testing.T) {
	svc := new(mocks.MockResultService)

	out, err := execute(t, fakeOpener(svc, nil), "evaluate", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.Contains(t, out, "error")
	svc.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
}

func TestEvaluateCmd_InvalidJobs(t *testing.T) {
	_, err := execute(t, fakeOpener(new(mocks.MockResultService), nil), "evaluate", "-j", "0", "a.pdf")
	assert.Error(t, err)
}

func TestLookupCmd(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("Lookup", mock.Anything, "1ab23cs001", "").Return(&domain.ResultRow{
		Name:          "JOHN DOE",
		ExternalID:    "1AB23CS001",
		SGPA:          decimal.RequireFromString("8.5"),
		SemesterLabel: "Semester 1",
		LastUpdated:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil)

	out, err := execute(t, fakeOpener(svc, nil), "lookup", "1ab23cs001")
	require.NoError(t, err)
	assert.Equal(t, "1AB23CS001\tJOHN DOE\t8.50\tSemester 1\t2026-03-01 10:00:00\n", out)
}

func TestLookupCmd_All(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("History", mock.Anything, "1AB23CS001").Return([]domain.ResultRow{
		{ExternalID: "1AB23CS001", SGPA: decimal.RequireFromString("8"), SemesterLabel: "Semester 1"},
		{ExternalID: "1AB23CS001", SGPA: decimal.RequireFromString("7.25"), SemesterLabel: "Semester 2"},
	}, nil)

	out, err := execute(t, fakeOpener(svc, nil), "lookup", "1AB23CS001", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "8.00\tSemester 1")
	assert.Contains(t, out, "7.25\tSemester 2")
	svc.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupCmd_NotFound(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("Lookup", mock.Anything, "1AB00XX000", "sem1").Return(nil, domain.ErrNotFound)

	_, err := execute(t, fakeOpener(svc, nil), "lookup", "1AB00XX000", "--semester", "sem1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportCmd_ToFile(t *testing.T) {
	svc := new(mocks.MockResultService)
	svc.On("ExportRecords", mock.Anything, mock.Anything, domain.ExportXLSX).Return(nil)

	target := filepath.Join(t.TempDir(), "out.xlsx")
	_, err := execute(t, fakeOpener(svc, nil), "export", "--format", "xlsx", "-o", target)
	require.NoError(t, err)
	assert.FileExists(t, target)
	svc.AssertExpectations(t)
}

func TestExportCmd_BadFormat(t *testing.T) {
	svc := new(mocks.MockResultService)

	_, err := execute(t, fakeOpener(svc, nil), "export", "--format", "ods")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
