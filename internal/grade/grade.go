// Package grade maps total marks to grade points and computes the
// credit-weighted semester grade point average.
package grade

import (
	"fmt"

	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
)

// band is a lower bound (inclusive) and the grade point awarded from it.
type band struct {
	min   int
	point int
}

// bands is ordered from the highest lower bound down. There is no band
// between 0 and 40, and 50-60 is split in two unlike the ten-mark bands above.
var bands = []band{
	{90, 10},
	{80, 9},
	{70, 8},
	{60, 7},
	{55, 6},
	{50, 5},
	{40, 4},
}

// Point returns the grade point for a subject's total marks.
func Point(totalMarks int) int {
	for _, b := range bands {
		if totalMarks >= b.min {
			return b.point
		}
	}
	return 0
}

// Enrich attaches credit and grade point to each record. Codes without a
// credit weigh zero unless cfg requires strict lookup, in which case the
// first such code fails with domain.ErrUnknownCourseCode.
func Enrich(records []domain.SubjectRecord, cfg *semester.Config) ([]domain.EnrichedSubjectRecord, error) {
	out := make([]domain.EnrichedSubjectRecord, 0, len(records))
	for _, r := range records {
		credit, ok := cfg.Credit(r.Code)
		if !ok && cfg.StrictCreditLookup() {
			return nil, fmt.Errorf("%w: %s in %s", domain.ErrUnknownCourseCode, r.Code, cfg.ID())
		}
		out = append(out, domain.EnrichedSubjectRecord{
			SubjectRecord: r,
			Credit:        credit,
			GradePoint:    Point(r.TotalMarks),
		})
	}
	return out, nil
}

// SGPA returns Σ(gradePoint×credit) / Σ(credit) as an exact ratio.
// Failed subjects are included. A zero credit total (no records, or only
// zero-credit codes) returns domain.ErrSGPAUndefined.
func SGPA(records []domain.EnrichedSubjectRecord) (domain.SGPA, error) {
	var s domain.SGPA
	for _, r := range records {
		s.WeightedPoints += r.GradePoint * r.Credit
		s.Credits += r.Credit
	}
	if s.Credits == 0 {
		return domain.SGPA{}, domain.ErrSGPAUndefined
	}
	return s, nil
}
