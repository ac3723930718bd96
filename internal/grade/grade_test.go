package grade_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtuportal/internal/domain"
	"vtuportal/internal/grade"
	"vtuportal/internal/semester"
)

func intPtr(v int) *int { return &v }

func TestPoint_Boundaries(t *testing.T) {
	tests := []struct {
		marks int
		want  int
	}{
		{-5, 0}, {0, 0}, {39, 0},
		{40, 4}, {49, 4},
		{50, 5}, {54, 5},
		{55, 6}, {59, 6},
		{60, 7}, {69, 7},
		{70, 8}, {79, 8},
		{80, 9}, {89, 9},
		{90, 10}, {100, 10}, {125, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grade.Point(tt.marks), "marks=%d", tt.marks)
	}
}

func TestPoint_MonotonicAndZeroBelowForty(t *testing.T) {
	prev := grade.Point(-1)
	for m := 0; m <= 150; m++ {
		p := grade.Point(m)
		assert.GreaterOrEqual(t, p, prev, "marks=%d", m)
		if m < 40 {
			assert.Zero(t, p, "marks=%d", m)
		}
		assert.Contains(t, []int{0, 4, 5, 6, 7, 8, 9, 10}, p)
		prev = p
	}
}

func TestEnrich_DefaultCatalogue(t *testing.T) {
	cat, err := semester.Default()
	require.NoError(t, err)
	cfg, err := cat.Get("sem1")
	require.NoError(t, err)

	got, err := grade.Enrich([]domain.SubjectRecord{
		{Code: "BMATE101", TotalMarks: 92},
		{Code: "BENGK106", TotalMarks: 38, Result: domain.ResultFail},
	}, cfg)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Credit)
	assert.Equal(t, 10, got[0].GradePoint)
	assert.Equal(t, 1, got[1].Credit)
	assert.Equal(t, 0, got[1].GradePoint)
	assert.Equal(t, domain.ResultFail, got[1].Result)
}

func lenientConfig(strict bool) *semester.Config {
	return semester.MustNew(semester.Spec{
		ID:                 "t",
		Label:              "Test",
		StrictCreditLookup: strict,
		Subjects: []semester.SubjectSpec{
			{Code: "A101", Credit: intPtr(4)},
			{Code: "B102"},
		},
	})
}

func TestEnrich_UnknownCodeLenient(t *testing.T) {
	records := []domain.SubjectRecord{
		{Code: "A101", TotalMarks: 80},
		{Code: "B102", TotalMarks: 95},
		{Code: "Z999", TotalMarks: 70},
	}
	got, err := grade.Enrich(records, lenientConfig(false))
	require.NoError(t, err)

	assert.Equal(t, 0, got[1].Credit)
	assert.Equal(t, 10, got[1].GradePoint)
	assert.Equal(t, 0, got[2].Credit)

	sgpa, err := grade.SGPA(got)
	require.NoError(t, err)
	assert.Equal(t, domain.SGPA{WeightedPoints: 36, Credits: 4}, sgpa)
	assert.True(t, decimal.NewFromInt(9).Equal(sgpa.Value()))
}

func TestEnrich_UnknownCodeStrict(t *testing.T) {
	_, err := grade.Enrich([]domain.SubjectRecord{{Code: "B102", TotalMarks: 95}}, lenientConfig(true))
	assert.ErrorIs(t, err, domain.ErrUnknownCourseCode)
}

func TestSGPA_Weighted(t *testing.T) {
	records := []domain.EnrichedSubjectRecord{
		{Credit: 4, GradePoint: 9},
		{Credit: 4, GradePoint: 8},
		{Credit: 3, GradePoint: 10},
		{Credit: 1, GradePoint: 0},
	}
	sgpa, err := grade.SGPA(records)
	require.NoError(t, err)

	assert.Equal(t, 98, sgpa.WeightedPoints)
	assert.Equal(t, 12, sgpa.Credits)
	assert.Equal(t, "8.17", sgpa.Rounded().StringFixed(2))
}

func TestSGPA_RoundsHalfUp(t *testing.T) {
	// 8.125 exactly
	sgpa := domain.SGPA{WeightedPoints: 65, Credits: 8}
	assert.Equal(t, "8.13", sgpa.Rounded().StringFixed(2))
}

func TestSGPA_Undefined(t *testing.T) {
	_, err := grade.SGPA(nil)
	assert.ErrorIs(t, err, domain.ErrSGPAUndefined)

	zeroCredit := semester.MustNew(semester.Spec{
		ID:    "zero",
		Label: "Zero",
		Subjects: []semester.SubjectSpec{
			{Code: "A101", Credit: intPtr(0)},
			{Code: "B102", Credit: intPtr(0)},
		},
	})
	enriched, err := grade.Enrich([]domain.SubjectRecord{
		{Code: "A101", TotalMarks: 99},
		{Code: "B102", TotalMarks: 45},
	}, zeroCredit)
	require.NoError(t, err)

	_, err = grade.SGPA(enriched)
	assert.ErrorIs(t, err, domain.ErrSGPAUndefined)
}
