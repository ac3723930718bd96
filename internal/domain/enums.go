package domain

// ResultFlag is the pass/fail code printed on a result row.
type ResultFlag string

const (
	ResultPass ResultFlag = "P"
	ResultFail ResultFlag = "F"
)

// EvaluationStatus is the terminal state of the reconciliation pipeline.
type EvaluationStatus string

const (
	EvaluationComplete      EvaluationStatus = "complete"
	EvaluationNoData        EvaluationStatus = "no_data"
	EvaluationSGPAUndefined EvaluationStatus = "sgpa_undefined"
)

// PersistenceStatus describes the outcome of the repository write.
type PersistenceStatus string

const (
	PersistenceCreated     PersistenceStatus = "created"
	PersistenceUpdated     PersistenceStatus = "updated"
	PersistenceUnavailable PersistenceStatus = "unavailable"
	PersistenceSkipped     PersistenceStatus = "skipped"
)

// UpsertAction is what a repository upsert did to the table.
type UpsertAction string

const (
	UpsertCreated UpsertAction = "created"
	UpsertUpdated UpsertAction = "updated"
)

// PersistenceStatus maps the action onto the outcome reported to callers.
func (a UpsertAction) PersistenceStatus() PersistenceStatus {
	if a == UpsertUpdated {
		return PersistenceUpdated
	}
	return PersistenceCreated
}

// FileTypePDF is the only accepted upload type; the text layer must already exist.
const FileTypePDF = "pdf"

// ContentTypePDF is the sniffed MIME type of an accepted upload.
const ContentTypePDF = "application/pdf"

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
