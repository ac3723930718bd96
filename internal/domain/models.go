package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotFound is the sentinel value for an identity field whose anchor was absent.
const NotFound = "Not Found"

// StudentIdentity holds the identity fields recovered from a result document.
// Either field may carry the NotFound sentinel.
type StudentIdentity struct {
	Name       string `json:"name"`
	ExternalID string `json:"usn"`
}

// HasName reports whether the name anchor was found.
func (s StudentIdentity) HasName() bool { return s.Name != NotFound }

// HasExternalID reports whether the seat number anchor was found.
func (s StudentIdentity) HasExternalID() bool { return s.ExternalID != NotFound }

// SubjectRecord is one recognised result row.
// Marks are positional: internal, external, total as printed on the row.
type SubjectRecord struct {
	Code          string     `json:"code"`
	InternalMarks int        `json:"internal"`
	ExternalMarks int        `json:"external"`
	TotalMarks    int        `json:"total_marks"`
	Result        ResultFlag `json:"result"`
	ResultDate    string     `json:"result_date"`
}

// EnrichedSubjectRecord is a SubjectRecord with its credit weight and grade point.
type EnrichedSubjectRecord struct {
	SubjectRecord
	Credit     int `json:"credit"`
	GradePoint int `json:"grade_point"`
}

// SGPA is the exact credit-weighted average WeightedPoints / Credits.
type SGPA struct {
	WeightedPoints int `json:"weighted_points"`
	Credits        int `json:"credits"`
}

// Value returns the average at full decimal precision.
func (s SGPA) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(s.WeightedPoints)).Div(decimal.NewFromInt(int64(s.Credits)))
}

// Rounded returns the average rounded half-up to two decimal places, as persisted.
func (s SGPA) Rounded() decimal.Decimal {
	return s.Value().Round(2)
}

// PerformanceSummary is the computed result for one document.
type PerformanceSummary struct {
	Identity StudentIdentity         `json:"identity"`
	Subjects []EnrichedSubjectRecord `json:"subjects"`
	SGPA     SGPA                    `json:"sgpa"`
}

// ResultRow is one persisted row of the shared result table.
// RowIndex is the store's native row position (1-based data rows) and is
// informational only.
type ResultRow struct {
	RowIndex      int64           `db:"row_index" json:"row_index"`
	Name          string          `db:"student_name" json:"student_name"`
	ExternalID    string          `db:"usn" json:"usn"`
	SGPA          decimal.Decimal `db:"sgpa" json:"sgpa"`
	SemesterLabel string          `db:"semester_label" json:"semester_label"`
	LastUpdated   time.Time       `db:"last_updated" json:"last_updated"`
}

// PersistenceOutcome reports what happened to the computed summary in the store.
type PersistenceOutcome struct {
	Status PersistenceStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
	Row    *ResultRow        `json:"row,omitempty"`
}

// Evaluation is the full output handed to the presentation layer.
type Evaluation struct {
	Status      EvaluationStatus        `json:"status"`
	SemesterID  string                  `json:"semester_id"`
	Semester    string                  `json:"semester"`
	Identity    StudentIdentity         `json:"identity"`
	Subjects    []EnrichedSubjectRecord `json:"subjects"`
	SGPA        *SGPA                   `json:"sgpa,omitempty"`
	SGPARounded *decimal.Decimal        `json:"sgpa_rounded,omitempty"`
	Persistence PersistenceOutcome      `json:"persistence"`
}

// Summary returns the PerformanceSummary for a complete evaluation, or nil.
func (e *Evaluation) Summary() *PerformanceSummary {
	if e.Status != EvaluationComplete || e.SGPA == nil {
		return nil
	}
	return &PerformanceSummary{Identity: e.Identity, Subjects: e.Subjects, SGPA: *e.SGPA}
}
